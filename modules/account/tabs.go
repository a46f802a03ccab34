package account

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

var (
	ErrTabExists   = errors.New("account: profile tab already registered")
	ErrTabNotFound = errors.New("account: profile tab not found")
)

// Built-in profile tab names.
const (
	TabPersonalInfo   = "personal-info"
	TabChangePassword = "change-password"
	TabTwoFactor      = "two-factor"
	TabProfilePicture = "profile-picture"
)

// ProfileTab describes one manage-profile tab. A nil Visible means always visible.
type ProfileTab struct {
	Name    string
	Title   string
	Order   int
	Visible func(Profile) bool
}

// TabPatch changes selected fields of a registered tab.
type TabPatch struct {
	Title   *string
	Order   *int
	Visible func(Profile) bool
}

// ProfileTabs is a registry of profile tabs shared by whoever holds it.
// It is safe for concurrent use.
type ProfileTabs struct {
	mu   sync.RWMutex
	tabs []ProfileTab
}

// NewProfileTabs returns a registry holding tabs.
func NewProfileTabs(tabs ...ProfileTab) *ProfileTabs {
	return &ProfileTabs{tabs: slices.Clone(tabs)}
}

// DefaultProfileTabs returns a registry with the built-in tabs. Change
// password is hidden from external users who have no local password.
func DefaultProfileTabs() *ProfileTabs {
	return NewProfileTabs(
		ProfileTab{Name: TabPersonalInfo, Title: "Personal info", Order: 1},
		ProfileTab{Name: TabChangePassword, Title: "Change password", Order: 2, Visible: func(p Profile) bool {
			return !p.IsExternal || p.HasPassword
		}},
		ProfileTab{Name: TabTwoFactor, Title: "Two factor authentication", Order: 3},
		ProfileTab{Name: TabProfilePicture, Title: "Profile picture", Order: 4},
	)
}

func (r *ProfileTabs) Add(tab ProfileTab) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index(tab.Name) >= 0 {
		return ErrTabExists
	}
	r.tabs = append(r.tabs, tab)
	return nil
}

func (r *ProfileTabs) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(name)
	if i < 0 {
		return ErrTabNotFound
	}
	r.tabs = slices.Delete(r.tabs, i, i+1)
	return nil
}

func (r *ProfileTabs) Patch(name string, p TabPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(name)
	if i < 0 {
		return ErrTabNotFound
	}
	if p.Title != nil {
		r.tabs[i].Title = *p.Title
	}
	if p.Order != nil {
		r.tabs[i].Order = *p.Order
	}
	if p.Visible != nil {
		r.tabs[i].Visible = p.Visible
	}
	return nil
}

// List returns the tabs visible for profile, sorted by Order then Name.
func (r *ProfileTabs) List(profile Profile) []ProfileTab {
	r.mu.RLock()
	out := make([]ProfileTab, 0, len(r.tabs))
	for _, t := range r.tabs {
		if t.Visible == nil || t.Visible(profile) {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b ProfileTab) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func (r *ProfileTabs) index(name string) int {
	return slices.IndexFunc(r.tabs, func(t ProfileTab) bool { return t.Name == name })
}
