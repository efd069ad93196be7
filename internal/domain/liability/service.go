package liability

import "context"

// Service serves the liability listing
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every stored liability, largest balance first.
func (s *Service) List(ctx context.Context) ([]*LiabilityWithAccount, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*LiabilityWithAccount{}
	}
	return rows, nil
}
