package api

import (
	"net/http"

	"github.com/kevinpauljacob/cal/internal/api/middleware"
	"github.com/kevinpauljacob/cal/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup, allowedOrigins []string, revoked middleware.RevokedFunc) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(gin.Recovery())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "success",
				"data":   "pong",
			})
		})

		authRequired := middleware.AuthMiddleware(revoked)

		listingGroup := apiGroup.Group("/listings")
		{
			listingGroup.GET("", group.MindshareHandler.GetListings)
			listingGroup.GET("/count", group.ListingHandler.GetCount)
			listingGroup.GET("/:handle/mindshare", group.MindshareHandler.GetListingMindshare)

			listingGroup.POST("", authRequired, group.ListingHandler.CreateListing)
			listingGroup.PUT("/:handle/launch-date", authRequired, group.ListingHandler.UpdateLaunchDate)
		}

		// 搜索与排行榜同一实现，q 为必填语义由前端保证
		apiGroup.GET("/search", group.MindshareHandler.GetListings)
		apiGroup.GET("/trending", group.MindshareHandler.GetTrending)

		mindshareGroup := apiGroup.Group("/mindshare")
		mindshareGroup.Use(authRequired)
		{
			mindshareGroup.POST("/collect", group.MindshareHandler.Collect)
		}

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.GET("/twitter", group.AuthHandler.Login)
			authGroup.GET("/callback/twitter", group.AuthHandler.Callback)
			authGroup.POST("/logout", authRequired, group.AuthHandler.Logout)
		}
	}

	return r
}
