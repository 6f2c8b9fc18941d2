package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/models"
)

// MockFeedSelector is a mock implementation of api.FeedSelector
type MockFeedSelector struct {
	mock.Mock
}

func (m *MockFeedSelector) Select(ctx context.Context, userID uuid.UUID, limit int, c feed.Criteria) ([]models.Recipe, error) {
	args := m.Called(ctx, userID, limit, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}
