// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"neurodrafts/notes-api/ai"
	"neurodrafts/notes-api/db"
	"neurodrafts/notes-api/demo"
	"neurodrafts/notes-api/extract"
	"neurodrafts/notes-api/middleware"
	"neurodrafts/notes-api/security"
	"neurodrafts/notes-api/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Argon     *security.ArgonHash
	Store     storage.Store
	AI        *ai.Client
	Canva     *ai.CanvaClient
	Demo      *demo.Registry
	Extractor *extract.Extractor
	Reaper    *demo.Reaper
}

func NewRouter() (*API, error) {
	a := &API{}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("cors.allowed_origins"),
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(db)
	optJWT := middleware.NewOptionalJWTMiddleware(db)
	maxUploadSize := viper.GetInt64("upload.max_size")

	a.Demo = demo.NewRegistry(db, time.Duration(viper.GetInt("demo.session_minutes"))*time.Minute)

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a JWT token
		main.HEAD("/validate", jwt, a.Validate)

		// POST /api/contact		-> Stores a contact form message
		main.POST("/contact", middleware.BodySizeLimiter(1<<20), a.ContactSubmit)
	}

	auth := main.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/register	-> Registers a new user and mails a verification code
		auth.POST("/register", a.UserRegister)

		// POST /api/auth/verify-email	-> Confirms the mailed registration code
		auth.POST("/verify-email", a.UserVerifyEmail)

		// POST /api/auth/login		-> Logs in a user and sets the token cookies
		auth.POST("/login", middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		}), a.UserLogin)

		// POST /api/auth/refresh-token	-> Rotates the access token from the refresh cookie
		auth.POST("/refresh-token", a.UserRefreshToken)

		// POST /api/auth/logout	-> Drops the token cookies
		auth.POST("/logout", a.UserLogout)

		// GET /api/auth/me		-> Returns the logged in user
		auth.GET("/me", jwt, a.UserMe)

		// POST /api/auth/forgot-password -> Mails a password reset code
		auth.POST("/forgot-password", a.UserForgotPassword)

		// POST /api/auth/reset-password  -> Sets a new password from the mailed code
		auth.POST("/reset-password", a.UserResetPassword)
	}

	dm := main.Group("/demo", middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 1,
		Burst:             3,
	}))
	{
		// POST /api/demo/login		-> Starts (or re-enters) an anonymous demo session
		dm.POST("/login", a.DemoEnter)

		// GET /api/demo/status		-> Reports demo session state without side effects
		dm.GET("/status", a.DemoStatus)
	}

	folders := main.Group("/folders", optJWT)
	{
		// POST /api/folders		-> Creates a folder
		folders.POST("", middleware.BodySizeLimiter(1<<20), a.FolderCreate)

		// GET /api/folders		-> Lists the caller's folders
		folders.GET("", a.FolderFetch)

		// PATCH /api/folders/:folderID	-> Renames a folder
		folders.PATCH("/:folderID", middleware.BodySizeLimiter(1<<20), a.FolderEdit)

		// DELETE /api/folders/:folderID -> Deletes a folder with everything in it
		folders.DELETE("/:folderID", a.FolderDelete)

		// GET /api/folders/:folderID/contents -> Notes and files of a folder in one response
		folders.GET("/:folderID/contents", a.FolderContents)

		// POST /api/folders/:folderID/notes -> Adds a note to a folder
		folders.POST("/:folderID/notes", middleware.BodySizeLimiter(1<<20), a.NoteCreate)

		// GET /api/folders/:folderID/notes -> Lists a folder's notes
		folders.GET("/:folderID/notes", a.NoteFetch)

		// POST /api/folders/:folderID/files -> Uploads a file, extracts its text
		folders.POST("/:folderID/files", middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)

		// GET /api/folders/:folderID/files -> Lists a folder's files
		folders.GET("/:folderID/files", a.FileFetch)
	}

	notes := main.Group("/notes", optJWT)
	{
		// PATCH /api/notes/:noteID	-> Edits a note
		notes.PATCH("/:noteID", middleware.BodySizeLimiter(1<<20), a.NoteEdit)

		// DELETE /api/notes/:noteID	-> Deletes a note
		notes.DELETE("/:noteID", a.NoteDelete)
	}

	files := main.Group("/files", optJWT)
	{
		// GET /api/files/:fileID/preview -> Streams the stored file back
		files.GET("/:fileID/preview", a.FilePreview)

		// DELETE /api/files/:fileID	-> Deletes a file and its blob
		files.DELETE("/:fileID", a.FileDelete)
	}

	aiGroup := main.Group("/ai", optJWT)
	{
		// GET /api/ai/voices		-> Lists the supported TTS voices
		aiGroup.GET("/voices", cacheFor(300), a.AIVoices)

		// POST /api/ai/folder_summary	-> Summarizes everything in a folder
		aiGroup.POST("/folder_summary", a.AIFolderSummary)

		// POST /api/ai/folder_tags	-> Generates and stores tags for a folder
		aiGroup.POST("/folder_tags", a.AIFolderTags)

		// POST /api/ai/folder_chat	-> Answers a question over folder contents
		aiGroup.POST("/folder_chat", a.AIFolderChat)

		// POST /api/ai/folder_presentation -> Builds a slide deck, optionally pushes to Canva
		aiGroup.POST("/folder_presentation", a.AIFolderPresentation)

		// POST /api/ai/folder_presentation_gamma -> Deck as Gamma paste markdown
		aiGroup.POST("/folder_presentation_gamma", a.AIFolderPresentationGamma)

		// POST /api/ai/note_summary	-> Summarizes note text
		aiGroup.POST("/note_summary", a.AINoteSummary)

		// POST /api/ai/note_title	-> Suggests a title for note text
		aiGroup.POST("/note_title", a.AINoteTitle)

		// POST /api/ai/note_markdown	-> Fixes up note markdown
		aiGroup.POST("/note_markdown", a.AINoteMarkdown)

		// POST /api/ai/note_chat	-> Answers a question over a note
		aiGroup.POST("/note_chat", a.AINoteChat)

		// POST /api/ai/note_references	-> Lists sources referenced in note text
		aiGroup.POST("/note_references", a.AINoteReferences)

		// POST /api/ai/note_audio_summary -> Reads text aloud, streams mpeg audio
		aiGroup.POST("/note_audio_summary", a.AINoteAudio)
	}

	a.Argon = security.NewArgon()
	a.AI = ai.NewClient()
	a.Canva = ai.NewCanvaClient()
	a.Extractor = extract.New(a.AI)

	st, err := storage.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage, %w", err)
	}
	a.Store = st
	a.Demo.Blobs = st

	a.Reaper = demo.NewReaper(
		db,
		time.Duration(viper.GetInt("demo.sweep_seconds"))*time.Second,
		time.Duration(viper.GetInt("demo.ban_hours"))*time.Hour,
		st,
	)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
