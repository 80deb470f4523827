package main

import (
	"os"

	"github.com/foremostprojects1/Locatex-final-backend/routes"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeDocumentStore()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	authenticated := []iris.Handler{accessTokenVerifierMiddleware, routes.RequireUser}
	adminOnly := []iris.Handler{accessTokenVerifierMiddleware, routes.RequireUser, utils.AdminOnlyMiddleware}

	app.Get("/api/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", routes.ResetPassword)
		user.Get("/profile", append(authenticated, routes.GetProfile)...)
		user.Patch("/profile", append(authenticated, routes.UpdateProfile)...)
		user.Put("/password", append(authenticated, routes.UpdatePassword)...)
		user.Get("/favorites", append(authenticated, routes.GetUserFavorites)...)
		user.Post("/favorites", append(authenticated, routes.AddFavorite)...)
		user.Delete("/favorites/{propertyID:uint}", append(authenticated, routes.RemoveFavorite)...)
	}

	properties := app.Party("/api/properties")
	{
		properties.Get("/", routes.ListProperties)
		properties.Get("/search", routes.SearchProperties)
		properties.Get("/featured", routes.GetFeaturedProperties)
		properties.Get("/aggregates/cities", routes.GetCityAggregates)
		properties.Get("/aggregates/types", routes.GetTypeAggregates)
		properties.Get("/mine", append(authenticated, routes.GetMyProperties)...)
		properties.Get("/{id:uint}", routes.OptionalUser, routes.GetProperty)
		properties.Post("/", append(authenticated, routes.CreateProperty)...)
		properties.Patch("/{id:uint}", append(authenticated, routes.UpdateProperty)...)
		properties.Delete("/{id:uint}", append(authenticated, routes.DeleteProperty)...)
		properties.Delete("/image", append(authenticated, routes.DeletePropertyImage)...)
	}

	agents := app.Party("/api/agents")
	{
		agents.Get("/", routes.ListAgents)
		agents.Get("/{id:uint}", routes.GetAgent)
		agents.Get("/{id:uint}/reviews", routes.ListAgentReviews)
		agents.Post("/register", append(authenticated, routes.RequestAgentRegistration)...)
		agents.Patch("/{id:uint}", append(authenticated, routes.UpdateAgent)...)
		agents.Post("/{id:uint}/reviews", append(authenticated, routes.CreateAgentReview)...)
		agents.Put("/reviews/{reviewID:uint}", append(authenticated, routes.UpdateAgentReview)...)
		agents.Delete("/reviews/{reviewID:uint}", append(authenticated, routes.DeleteAgentReview)...)
	}

	app.Post("/api/contact", routes.CreateContact)
	app.Post("/api/messages", append(authenticated, routes.CreateMessage)...)

	admin := app.Party("/api/admin", adminOnly...)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Patch("/users/{id:uint}/status", routes.AdminSetUserStatus)
		admin.Delete("/users/{id:uint}", routes.AdminDeleteUser)

		admin.Get("/properties", routes.AdminListProperties)
		admin.Post("/properties/{id:uint}/approve", routes.ApproveProperty)
		admin.Post("/properties/{id:uint}/reject", routes.RejectProperty)

		admin.Get("/agents", routes.AdminListAgents)
		admin.Patch("/agents/{id:uint}", routes.UpdateAgent)
		admin.Delete("/agents/{id:uint}", routes.DeleteAgent)

		admin.Get("/messages", routes.AdminListMessages)
		admin.Get("/messages/stats", routes.MessageStats)
		admin.Post("/messages/{id:uint}/reply", routes.ReplyMessage)
		admin.Post("/messages/{id:uint}/read", routes.MarkMessageRead)
		admin.Patch("/messages/{id:uint}", routes.UpdateMessageTriage)
		admin.Delete("/messages/{id:uint}", routes.DeleteMessage)

		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	utils.Logger.Info().Str("addr", addr).Msg("server starting")

	if err := app.Listen(addr); err != nil {
		utils.Logger.Fatal().Err(err).Msg("server failed")
	}
}
