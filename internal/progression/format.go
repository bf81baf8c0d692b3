package progression

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName turns a catalog key like "iron_sword" into "Iron Sword"
func DisplayName(key string) string {
	// a Caser holds state, so one is built per call
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// LevelUpMessage formats the notification text for a level-up
func LevelUpMessage(skill string, level int) string {
	return fmt.Sprintf("%s reached level %d", DisplayName(skill), level)
}
