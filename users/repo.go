package users

type AccountRepo interface {
	Upsert(account *Account) error
	GetByAccount(account string) (*Account, error)
	GetByID(id int64) (*Account, error)
	List() ([]*Account, error)
	SetBlocked(account string, blocked bool) error
}
