package repository

import (
	"fmt"

	"github.com/Xavi146570/football-value-detector/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Opportunity OpportunityRepository
	Result      ResultRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Opportunity: NewPostgresOpportunityRepository(db),
		Result:      NewPostgresResultRepository(db),
	}, nil
}
