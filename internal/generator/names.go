package generator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

const collisionBudget = 1000

// registry hands out unique identifiers for one generation run. Keys are
// compared case-insensitively so names stay distinct in VB as well.
type registry struct {
	taken map[string]bool
}

func newRegistry(reserved ...string) *registry {
	r := &registry{taken: map[string]bool{}}
	for _, name := range reserved {
		r.taken[strings.ToLower(name)] = true
	}
	return r
}

// claim returns base, or base_2, base_3 ... when base is taken.
func (r *registry) claim(base string) (string, error) {
	if r.tryClaim(base) {
		return base, nil
	}
	for n := 2; n <= collisionBudget; n++ {
		name := base + "_" + strconv.Itoa(n)
		if r.tryClaim(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNameCollisionUnresolvable, base)
}

func (r *registry) tryClaim(name string) bool {
	key := strings.ToLower(name)
	if r.taken[key] {
		return false
	}
	r.taken[key] = true
	return true
}

// identifier turns a title into a PascalCase identifier.
func identifier(title, fallback string) string {
	name := lo.PascalCase(title)
	if name == "" {
		return fallback
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return fallback + name
	}
	return name
}

func scenarioName(title string) string { return identifier(title, "Scenario") }

// outlineCaseName is Title[_Block]_Variant<row>.
func outlineCaseName(title, block string, row int) string {
	name := scenarioName(title)
	if block != "" {
		if b := lo.PascalCase(block); b != "" {
			name += "_" + b
		}
	}
	return name + "_Variant" + strconv.Itoa(row)
}

func className(title, path string) string {
	name := lo.PascalCase(title)
	if name == "" {
		name = lo.PascalCase(strings.TrimSuffix(baseName(path), ".feature"))
	}
	name = identifier(name, "Feature")
	if !strings.HasSuffix(name, "Feature") {
		name += "Feature"
	}
	return name
}
