package listing

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/punchamoorthee/bankdash/internal/domain"
)

func sampleAccounts() []domain.Account {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []domain.Account{
		{ID: 1, AccountNumber: "ACC-1001", AccountHolder: "John Doe", AccountType: domain.Checking, Balance: decimal.NewFromInt(1500), Status: domain.StatusActive, CreatedAt: day(3)},
		{ID: 2, AccountNumber: "ACC-1002", AccountHolder: "Jane Smith", AccountType: domain.Savings, Balance: decimal.NewFromInt(3200), Status: domain.StatusActive, CreatedAt: day(1)},
		{ID: 3, AccountNumber: "ACC-2001", AccountHolder: "alice brown", AccountType: domain.Checking, Balance: decimal.NewFromInt(75), Status: domain.StatusFrozen, CreatedAt: day(5)},
		{ID: 4, AccountNumber: "SAV-0004", AccountHolder: "Bob Stone", AccountType: domain.Savings, Balance: decimal.NewFromInt(1500), Status: domain.StatusActive, CreatedAt: day(2)},
	}
}

func ids(accounts []domain.Account) []int64 {
	out := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.ID)
	}
	return out
}

func TestAccountSearchIsSubsetProperty(t *testing.T) {
	all := sampleAccounts()
	terms := []string{"", "jo", "JANE", "acc-", "1002", "stone", "zzz", "o", "SAV"}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		a := all[rng.Intn(len(all))]
		start := rng.Intn(len(a.AccountHolder))
		terms = append(terms, strings.ToUpper(a.AccountHolder[start:]))
	}

	for _, term := range terms {
		got := Accounts(all, AccountQuery{Search: term})

		var want []int64
		for _, a := range all {
			lt := strings.ToLower(term)
			if strings.Contains(strings.ToLower(a.AccountHolder), lt) || strings.Contains(strings.ToLower(a.AccountNumber), lt) {
				want = append(want, a.ID)
			}
		}
		assert.ElementsMatch(t, want, ids(got), "term %q", term)
	}

	assert.Len(t, Accounts(all, AccountQuery{}), len(all))
}

func TestAccountTypeFilter(t *testing.T) {
	all := sampleAccounts()
	assert.Equal(t, []int64{4, 2}, ids(Accounts(all, AccountQuery{Type: "savings", Sort: SortByCreated})))
	assert.Len(t, Accounts(all, AccountQuery{Type: All}), 4)
	assert.Empty(t, Accounts(all, AccountQuery{Type: "brokerage"}))
}

func TestAccountSearchAndFilterCompose(t *testing.T) {
	all := sampleAccounts()
	got := Accounts(all, AccountQuery{Search: "acc", Type: "checking", Sort: SortByName})
	assert.Equal(t, []int64{3, 1}, ids(got))
}

func TestAccountSorts(t *testing.T) {
	all := sampleAccounts()
	tests := []struct {
		sort AccountSort
		want []int64
	}{
		{SortByName, []int64{3, 4, 2, 1}},
		{SortByBalance, []int64{2, 1, 4, 3}},
		{SortByType, []int64{1, 3, 2, 4}},
		{SortByCreated, []int64{3, 1, 4, 2}},
		{"bogus", []int64{3, 4, 2, 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ids(Accounts(all, AccountQuery{Sort: tt.sort})), string(tt.sort))
	}
}

func TestAccountsDoesNotMutateInput(t *testing.T) {
	all := sampleAccounts()
	Accounts(all, AccountQuery{Sort: SortByBalance})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(all))
}

func TestSummarizeAccounts(t *testing.T) {
	stats := SummarizeAccounts(sampleAccounts())
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, "6275", stats.TotalBalance.String())

	empty := SummarizeAccounts(nil)
	assert.True(t, empty.TotalBalance.IsZero())
}

func TestFindAccount(t *testing.T) {
	acc, ok := FindAccount(sampleAccounts(), 2)
	assert.True(t, ok)
	assert.Equal(t, "Jane Smith", acc.AccountHolder)

	_, ok = FindAccount(sampleAccounts(), 99)
	assert.False(t, ok)
}

func TestParseAccountSort(t *testing.T) {
	assert.Equal(t, SortByBalance, ParseAccountSort("balance"))
	assert.Equal(t, SortByName, ParseAccountSort(""))
	assert.Equal(t, "Date Created", SortByCreated.Label())
}
