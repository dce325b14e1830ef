package server

import (
	"fmt"

	fakeuserrepo "github.com/jrsteele09/go-warehouse-client/users/repofake"
)

// InitialiseSystem seeds the demo accounts when the account repo is empty.
func (s *Server) InitialiseSystem() error {
	existing, err := s.accounts.List()
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to list accounts: %w", err)
	}
	if len(existing) > 0 {
		s.log.Debug().Int("accounts", len(existing)).Msg("accounts present, skipping seed")
		return nil
	}

	if err := fakeuserrepo.SeedDemoUsers(s.accounts); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] %w", err)
	}
	s.log.Info().Msg("seeded demo accounts admin, sales and warehouse (password = account name)")
	return nil
}
