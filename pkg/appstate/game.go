package appstate

import "github.com/pathline-dev/pathline/pkg/store"

// GameStatus is the lifecycle of a game session.
type GameStatus string

const (
	GameIdle     GameStatus = "idle"
	GameWaiting  GameStatus = "waiting"
	GameRunning  GameStatus = "running"
	GameFinished GameStatus = "finished"
)

// GameState is the game-session store state.
type GameState struct {
	GameID   string
	Status   GameStatus
	Opponent string
}

// GameStore tracks the current game session. It implements
// guards.GameSessionReader.
type GameStore struct {
	*store.Base[GameState]
}

// NewGameStore creates a store with no game session.
func NewGameStore(opts ...store.Option) *GameStore {
	return &GameStore{Base: store.New(GameState{Status: GameIdle}, opts...)}
}

// Join commits a pending game session.
func (s *GameStore) Join(gameID, opponent string) {
	s.Set(func(st *GameState) {
		st.GameID = gameID
		st.Opponent = opponent
		st.Status = GameWaiting
	})
}

// Start marks the session as running.
func (s *GameStore) Start() {
	s.Set(func(st *GameState) {
		st.Status = GameRunning
	})
}

// Finish marks the session as finished, keeping the game ID for results.
func (s *GameStore) Finish() {
	s.Set(func(st *GameState) {
		st.Status = GameFinished
	})
}

// Leave resets the store to the idle state.
func (s *GameStore) Leave() {
	s.Replace(GameState{Status: GameIdle})
}

// ActiveGame implements guards.GameSessionReader.
func (s *GameStore) ActiveGame() bool {
	st := s.Get()
	return st.Status == GameWaiting || st.Status == GameRunning
}
