// Package mocks holds testify mocks of the service interfaces used by the
// HTTP handlers.
package mocks

import (
	"github.com/swipechef/backend/internal/api"
	"github.com/swipechef/backend/internal/middleware"
	"github.com/swipechef/backend/internal/service"
)

var (
	_ middleware.TokenValidator = (*MockTokenValidator)(nil)
	_ api.FeedSelector          = (*MockFeedSelector)(nil)
	_ service.IRecipeService    = (*MockRecipeService)(nil)
	_ service.ISavedService     = (*MockSavedService)(nil)
	_ service.IReportService    = (*MockReportService)(nil)
	_ service.IProfileService   = (*MockProfileService)(nil)
	_ service.IRatingService    = (*MockRatingService)(nil)
	_ service.IReviewService    = (*MockReviewService)(nil)
	_ service.ICatalogService   = (*MockCatalogService)(nil)
	_ service.IImageService     = (*MockImageService)(nil)
)
