package theme

import "os"

// EnvIcons selects the icon set ("nerd" or "ascii").
const EnvIcons = "TEAMWATCH_ICONS"

// Icons are the glyphs used by the terminal dashboard.
type Icons struct {
	Connected    string
	Disconnected string
	Process      string
	Team         string
	Motion       string
	Rest         string
	Task         string
	Desk         string
	Bullet       string
}

var nerdIcons = Icons{
	Connected:    "󰄬", // md-check
	Disconnected: "", // cod-error
	Process:      "", // seti-shell
	Team:         "󰡉", // md-account_group
	Motion:       "󰔟", // md-timer_sand
	Rest:         "󰒲", // md-sleep
	Task:         "󰄱", // md-checkbox_blank_outline
	Desk:         "📣",
	Bullet:       "", // oct-dot_fill
}

var asciiIcons = Icons{
	Connected:    "●",
	Disconnected: "●",
	Process:      "▶",
	Team:         "◆",
	Motion:       "◐",
	Rest:         "…",
	Task:         "▢",
	Desk:         "📣",
	Bullet:       "•",
}

// IconSet resolves the icon set. TEAMWATCH_ICONS wins over the configured
// value; anything but "nerd" gets the ASCII set.
func IconSet(configured string) Icons {
	choice := configured
	if env := os.Getenv(EnvIcons); env != "" {
		choice = env
	}
	if choice == "nerd" {
		return nerdIcons
	}
	return asciiIcons
}
