package store

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// Snapshot is the full state of a collection at one point in time. A
// snapshot with a non-nil Err is the last value on its channel.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// observe emits load's result immediately and again after every change
// published on path. The channel is closed when ctx is done or after an
// error snapshot; the feed subscription is released on every exit path.
func observe[T any](ctx context.Context, feed *Feed, path Path, load func(context.Context) ([]T, error)) <-chan Snapshot[T] {
	out := make(chan Snapshot[T])
	changes, unsubscribe := feed.Subscribe(path)

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			items, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				select {
				case out <- Snapshot[T]{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			select {
			case out <- Snapshot[T]{Items: items}:
			case <-ctx.Done():
				return
			}

			select {
			case <-changes:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// scanAll decodes every row of query into T. Rows that fail to decode are
// logged and skipped.
func scanAll[T any](db *gorm.DB, query *gorm.DB) ([]T, error) {
	rows, err := query.Rows()
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var item T
		if err := db.ScanRows(rows, &item); err != nil {
			slog.Warn("dropping undecodable record", "type", typeName[T](), "error", err)
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return items, nil
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
