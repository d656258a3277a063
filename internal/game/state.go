package game

// GameStatus is the lifecycle state of a golf session.
type GameStatus string

const (
	StatusWaiting    GameStatus = "WAITING"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusCompleted  GameStatus = "COMPLETED"
	StatusExpired    GameStatus = "EXPIRED"
)

// IsFinal reports whether the session can no longer be played.
func (s GameStatus) IsFinal() bool {
	return s == StatusCompleted || s == StatusExpired
}
