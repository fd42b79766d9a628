package store

// Path addresses a collection, e.g. "boards/b1/tickets".
type Path string

func BoardsPath() Path {
	return "boards"
}

func StatusesPath(boardID string) Path {
	return Path("boards/" + boardID + "/statuses")
}

func TicketsPath(boardID string) Path {
	return Path("boards/" + boardID + "/tickets")
}

func SubTicketsPath(boardID, ticketID string) Path {
	return Path("boards/" + boardID + "/tickets/" + ticketID + "/subtickets")
}

func CommentsPath(boardID, ticketID string) Path {
	return Path("boards/" + boardID + "/tickets/" + ticketID + "/comments")
}

func UserPath(userID string) Path {
	return Path("users/" + userID)
}
