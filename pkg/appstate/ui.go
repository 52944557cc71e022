package appstate

import "github.com/pathline-dev/pathline/pkg/store"

// UIState holds presentation flags shared across pages.
type UIState struct {
	Theme       string
	SidebarOpen bool
	Loading     bool
}

// UIStore tracks presentation flags.
type UIStore struct {
	*store.Base[UIState]
}

// NewUIStore creates a UI store with the default theme.
func NewUIStore(opts ...store.Option) *UIStore {
	return &UIStore{Base: store.New(UIState{Theme: "dark"}, opts...)}
}

// SetTheme commits a theme change.
func (s *UIStore) SetTheme(theme string) {
	s.Set(func(st *UIState) {
		st.Theme = theme
	})
}

// ToggleSidebar flips the sidebar flag.
func (s *UIStore) ToggleSidebar() {
	s.Set(func(st *UIState) {
		st.SidebarOpen = !st.SidebarOpen
	})
}

// SetLoading commits the global loading flag.
func (s *UIStore) SetLoading(loading bool) {
	s.Set(func(st *UIState) {
		st.Loading = loading
	})
}
