package fakeuserrepo

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jrsteele09/go-warehouse-client/users"
)

var _ users.AccountRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	accounts map[int64]*users.Account
	names    map[string]int64 // account name to user id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		accounts: make(map[int64]*users.Account),
		names:    make(map[string]int64),
		nextID:   1,
	}
}

func (ur *FakeUserRepo) Upsert(account *users.Account) error {
	if account.Account == "" {
		return fmt.Errorf("account name is required")
	}

	ur.lock.Lock()
	defer ur.lock.Unlock()

	if account.UserID == 0 {
		if id, ok := ur.names[account.Account]; ok {
			account.UserID = id
		} else {
			account.UserID = ur.nextID
		}
	}
	if account.UserID >= ur.nextID {
		ur.nextID = account.UserID + 1
	}
	ur.accounts[account.UserID] = account
	ur.names[account.Account] = account.UserID
	return nil
}

func (ur *FakeUserRepo) GetByAccount(account string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.names[account]
	if !ok {
		return nil, fmt.Errorf("account %q: not found", account)
	}
	return ur.accounts[id], nil
}

func (ur *FakeUserRepo) GetByID(id int64) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	a, ok := ur.accounts[id]
	if !ok {
		return nil, fmt.Errorf("user %d: not found", id)
	}
	return a, nil
}

func (ur *FakeUserRepo) List() ([]*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*users.Account, 0, len(ur.accounts))
	for _, a := range ur.accounts {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UserID < list[j].UserID })
	return list, nil
}

func (ur *FakeUserRepo) SetBlocked(account string, blocked bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.names[account]
	if !ok {
		return fmt.Errorf("account %q: not found", account)
	}
	ur.accounts[id].Blocked = blocked
	return nil
}

// SeedDemoUsers creates one account per dashboard role. Each password equals the account name.
func SeedDemoUsers(repo users.AccountRepo) error {
	demo := []struct {
		account string
		roleID  int64
		role    string
	}{
		{"admin", 1, users.RoleAdmin},
		{"sales", 2, users.RoleSales},
		{"warehouse", 3, users.RoleWarehouse},
	}
	for _, d := range demo {
		hash, err := users.HashPassword(d.account)
		if err != nil {
			return fmt.Errorf("[SeedDemoUsers] hash password: %w", err)
		}
		if err := repo.Upsert(&users.Account{
			Profile: users.Profile{
				Account:  d.account,
				RoleID:   d.roleID,
				RoleName: d.role,
			},
			PasswordHash: hash,
		}); err != nil {
			return fmt.Errorf("[SeedDemoUsers] upsert %s: %w", d.account, err)
		}
	}
	return nil
}
