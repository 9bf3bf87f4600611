package api

import (
	"log"
	stdhttp "net/http"

	intconfig "trainbuddy/internal/config"
	h "trainbuddy/internal/http/handlers"
	"trainbuddy/internal/http/middleware"
	"trainbuddy/internal/repositories"
	"trainbuddy/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success":   false,
			"errorCode": "NOT_FOUND",
			"message":   "Route not found.",
		})
	})

	tokens := services.NewTokenService(env.JWTSecret, env.JWTExpiryHours)
	client := services.NewIRCTCClient(env)

	journeyRepo := repositories.VerifiedJourneyRepo{}
	userRepo := repositories.UserRepo{}

	authHandler := h.AuthHandler{
		Otp:    services.OtpService{Repo: repositories.OtpRepo{}, DevMode: env.OTPDevMode},
		Tokens: tokens,
		Users:  userRepo,
	}
	pnrHandler := h.PnrHandler{
		Pnr: func(requestID string) services.PnrService {
			return services.PnrService{Client: client, Journeys: journeyRepo, RequestID: requestID}
		},
		Docs: func(requestID string) services.DocsService {
			return services.DocsService{Journeys: journeyRepo, RequestID: requestID}
		},
	}
	trainsHandler := h.TrainsHandler{
		Trains: func(requestID string) services.TrainService {
			return services.TrainService{Client: client, RequestID: requestID}
		},
	}
	buddiesHandler := h.BuddiesHandler{
		Buddies: services.BuddyService{
			Journeys: journeyRepo,
			Requests: repositories.BuddyRequestRepo{},
		},
	}
	offersHandler := h.OffersHandler{
		Offers: services.OfferService{
			Offers:   repositories.OfferRepo{},
			Requests: repositories.OfferRequestRepo{},
		},
	}
	usersHandler := h.UsersHandler{
		Users:      services.UserService{Users: userRepo},
		UploadsDir: env.UploadsDir,
	}
	paymentsHandler := h.PaymentsHandler{}

	requireAuth := middleware.RequireAuth(tokens)
	verifiedBody := middleware.RequireVerifiedPNR(journeyRepo, middleware.PNRFromBody)
	verifiedQuery := middleware.RequireVerifiedPNR(journeyRepo, middleware.PNRFromQuery)
	premium := middleware.RequirePremium(middleware.AllowAll{})

	r.GET("/health", h.Health)
	r.GET("/db-check", h.DBCheck)
	r.Static("/uploads", env.UploadsDir)

	auth := r.Group("/auth")
	{
		auth.POST("/send-otp", authHandler.SendOTP)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
	}

	pnr := r.Group("/pnr", requireAuth)
	{
		pnr.POST("/lookup", pnrHandler.Lookup)
		pnr.GET("/summary", verifiedQuery, pnrHandler.Summary)
	}

	trains := r.Group("/trains", requireAuth)
	{
		trains.POST("/search", trainsHandler.Search)
		trains.GET("/schedule/:trainNumber", trainsHandler.Schedule)
		trains.POST("/live-status", trainsHandler.LiveStatus)
		trains.GET("/stations", trainsHandler.Stations)
	}

	buddies := r.Group("/buddies", requireAuth)
	{
		buddies.POST("/search", verifiedBody, premium, buddiesHandler.Search)
		buddies.POST("/request", verifiedBody, premium, buddiesHandler.Request)
		buddies.POST("/respond", buddiesHandler.Respond)
		buddies.GET("/requests/incoming", verifiedQuery, buddiesHandler.Incoming)
		buddies.GET("/requests/outgoing", verifiedQuery, buddiesHandler.Outgoing)
	}

	offers := r.Group("/offers", requireAuth)
	{
		offers.POST("/create", verifiedBody, premium, offersHandler.Create)
		offers.GET("/search", verifiedQuery, premium, offersHandler.Search)
		offers.POST("/request", verifiedBody, premium, offersHandler.Request)
		offers.POST("/respond", offersHandler.Respond)
		offers.GET("/my", verifiedQuery, offersHandler.My)
		offers.GET("/requests/incoming", verifiedQuery, offersHandler.Incoming)
		offers.GET("/requests/outgoing", verifiedQuery, offersHandler.Outgoing)
	}

	users := r.Group("/users", requireAuth)
	{
		users.GET("/profile", usersHandler.GetProfile)
		users.POST("/profile", usersHandler.UpdateProfile)
		users.POST("/preferences", usersHandler.UpdatePreferences)
		users.POST("/verification", usersHandler.UpdateVerification)
		users.POST("/photo", usersHandler.UploadPhoto)
	}

	payments := r.Group("/payments", requireAuth)
	{
		payments.POST("/create-intent", paymentsHandler.CreateIntent)
		payments.POST("/confirm", paymentsHandler.Confirm)
	}

	return r
}
