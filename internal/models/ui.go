package models

// Theme is the display theme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Tab is a top-level view
type Tab string

const (
	TabHome     Tab = "Home"
	TabFeedback Tab = "Feedback"
	TabAbout    Tab = "About"
	TabContact  Tab = "Contact"
)

// Tabs lists the navigation tabs in display order
var Tabs = []Tab{TabHome, TabFeedback, TabAbout, TabContact}

func (t Tab) Valid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

// UIState is the overlay and navigation state of one page session
type UIState struct {
	ActiveTab         Tab  `json:"activeTab"`
	ProfileMenuOpen   bool `json:"profileMenuOpen"`
	MobileMenuOpen    bool `json:"mobileMenuOpen"`
	HistoryModalOpen  bool `json:"historyModalOpen"`
	SettingsModalOpen bool `json:"settingsModalOpen"`
}
