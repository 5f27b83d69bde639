package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/autolane/autolane-backend/api/controllers"
	"github.com/autolane/autolane-backend/api/middleware"
	"github.com/autolane/autolane-backend/internal/accounts"
	"github.com/autolane/autolane-backend/internal/auctions"
	"github.com/autolane/autolane-backend/internal/bids"
	"github.com/autolane/autolane-backend/internal/documents"
	"github.com/autolane/autolane-backend/internal/inspections"
	"github.com/autolane/autolane-backend/internal/notifications"
	"github.com/autolane/autolane-backend/internal/shipments"
	"github.com/autolane/autolane-backend/internal/translations"
	"github.com/autolane/autolane-backend/pkg/config"
	"github.com/autolane/autolane-backend/pkg/db"
	"github.com/autolane/autolane-backend/pkg/logger"
	"github.com/autolane/autolane-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	auctionsService auctions.Service,
	bidsService bids.Service,
	shipmentsService shipments.Service,
	inspectionsService inspections.Service,
	translationsService translations.Service,
	documentsService documents.Service,
	notificationsService notifications.Service,
	accountsService accounts.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	bidActionPolicy := middleware.NewBidActionPolicy(
		"bid-action",
		cfg.Bids.ActionWindow,
		cfg.Bids.ActionLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyChecks(dbClient, redisClient)))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CustomerContext(logg))

		r.Route("/auctions", func(r chi.Router) {
			r.Get("/", controllers.ListAuctions(auctionsService, logg))
			r.Get("/{auctionId}", controllers.GetAuction(auctionsService, logg))
			r.Post("/{auctionId}/translations", controllers.RequestTranslation(translationsService, logg))
		})

		r.Route("/bids", func(r chi.Router) {
			r.Get("/", controllers.ListBids(bidsService, logg))
			r.Get("/{bidId}", controllers.GetBid(bidsService, logg))
			r.With(middleware.BidActionRateLimit(bidActionPolicy, redisClient, logg)).
				Post("/{bidId}/change", controllers.ChangeBid(bidsService, logg))
			r.With(middleware.BidActionRateLimit(bidActionPolicy, redisClient, logg)).
				Post("/{bidId}/cancel", controllers.CancelBid(bidsService, logg))
		})

		r.Route("/shipments/{shipmentId}", func(r chi.Router) {
			r.Get("/timeline", controllers.GetShipmentTimeline(shipmentsService, logg))
			r.Post("/inspections", controllers.RequestInspection(inspectionsService, logg))
		})

		r.Get("/tasks/{taskId}/documents", controllers.ListTaskDocuments(documentsService, logg))
		r.Post("/documents/{documentId}/uploaded", controllers.MarkDocumentUploaded(documentsService, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/", controllers.GetAccount(accountsService, logg))
			r.Patch("/", controllers.UpdateAccount(accountsService, logg))
		})
	})

	return r
}

func readyChecks(dbClient *db.Client, redisClient *redis.Client) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{}
	if dbClient != nil {
		checks["database"] = dbClient
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	return checks
}
