package worker

import (
	"github.com/spec-kit/department-app/internal/service"
)

// StartChangeFeed registers the change feed handlers.
func StartChangeFeed(changeFeed *service.ChangeFeedService) {
	if changeFeed == nil {
		return
	}
	changeFeed.RegisterHandlers()
}
