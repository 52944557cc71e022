// Package store provides the reactive state container shared by every
// application store.
//
// Base[T] holds one struct-typed state value and exposes subscribe/get/set.
// Concrete stores embed it and expose domain mutators that call the
// protected-by-embedding Set and Replace:
//
//	type AuthState struct {
//	    Authenticated bool
//	    User          string
//	}
//
//	type AuthStore struct {
//	    *store.Base[AuthState]
//	}
//
//	func (s *AuthStore) Login(user string) {
//	    s.Set(func(st *AuthState) {
//	        st.Authenticated = true
//	        st.User = user
//	    })
//	}
//
// # Immutability
//
// Committed state is isolated by deep copy: Get returns a fresh copy of the
// last committed value, the committed value itself is a private copy, and
// each subscriber receives its own copy. No caller can mutate the container's
// state except through Set and Replace. This is the Go rendering of a
// recursively frozen state object: mutation of a returned value never
// changes what a subsequent Get observes.
//
// # Change detection
//
// Set builds the next state from a copy of the current one, then compares the
// two field by field. If no exported field changed, the commit is suppressed
// and no subscriber is notified. Replace skips the comparison and always
// notifies; it is meant for resets and hydration.
//
// # Notification
//
// Subscribers are notified asynchronously, decoupling the state commit from
// listener execution: a listener may itself call Set without re-entrancy
// hazards. Notifications for successive commits are delivered in commit
// order, and all subscribers present at commit time are notified before the
// next commit's notifications start. A panicking subscriber is recovered and
// logged; remaining subscribers still run.
package store
