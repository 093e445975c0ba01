package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*categoryFlag)(nil)
	_ pflag.Value = (*scopeFlag)(nil)
)

// categoryFlag accepts only known mission categories.
type categoryFlag struct {
	value domain.MissionCategory
}

func (f *categoryFlag) String() string { return string(f.value) }
func (f *categoryFlag) Type() string   { return "category" }

func (f *categoryFlag) Set(s string) error {
	if !domain.ValidCategories[s] {
		keys := make([]string, 0, len(domain.ValidCategories))
		for k := range domain.ValidCategories {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return fmt.Errorf("must be one of %s", strings.Join(keys, ", "))
	}
	f.value = domain.MissionCategory(s)
	return nil
}

// scopeFlag accepts a leaderboard scope.
type scopeFlag struct {
	value domain.LeaderboardScope
}

func newScopeFlag() *scopeFlag { return &scopeFlag{value: domain.ScopeAll} }

func (f *scopeFlag) String() string { return string(f.value) }
func (f *scopeFlag) Type() string   { return "scope" }

func (f *scopeFlag) Set(s string) error {
	switch scope := domain.LeaderboardScope(s); scope {
	case domain.ScopeAll, domain.ScopeVillage, domain.ScopeDistrict:
		f.value = scope
		return nil
	}
	return fmt.Errorf("must be one of all, village, district")
}
