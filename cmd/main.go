package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blogging-backend/config"
	"blogging-backend/internal/api/blog"
	"blogging-backend/internal/api/upload"
	"blogging-backend/internal/api/user"
	"blogging-backend/internal/identity"
	"blogging-backend/internal/middleware"
	"blogging-backend/internal/repository/mysql"
	"blogging-backend/internal/service"
	"blogging-backend/internal/storage"
	"blogging-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err := db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("taglist", util.ValidateTagList)
	}

	// 初始化文件存储后端
	fileStorage, err := storage.NewFileStorage(&config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	blogRepo := mysql.NewBlogRepository(db)
	commentRepo := mysql.NewCommentRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)

	verifier := identity.NewGoogleVerifier(config.AppConfig.GoogleClientID)
	userService := service.NewUserService(userRepo, verifier)
	notificationService := service.NewNotificationService(notificationRepo, blogRepo)
	commentService := service.NewCommentService(commentRepo, blogRepo, notificationRepo, notificationService)
	blogService := service.NewBlogService(blogRepo, userRepo, commentRepo, notificationRepo)

	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService)
	blogHandler := blog.NewBlogHandler(blogService)
	commentHandler := blog.NewCommentHandler(commentService)
	notificationHandler := blog.NewNotificationHandler(notificationService)
	uploadHandler := upload.NewUploadHandler(fileStorage)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// 本地存储后端通过静态路由提供已上传的文件
	if config.AppConfig.StorageBackend == "local" {
		r.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
				c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
				c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")
				if c.Request.Method == "OPTIONS" {
					c.AbortWithStatus(200)
					return
				}
			}
			c.Next()
		})
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
		r.PUT("/uploads/:filename", uploadHandler.DirectUpload)
	}

	// 认证路由
	r.POST("/signup", authHandler.Signup)
	r.POST("/signin", authHandler.Signin)
	r.POST("/google-auth", authHandler.GoogleAuth)

	// 博客公开路由
	r.POST("/latest-blogs", blogHandler.LatestBlogs)
	r.GET("/tranding-blogs", blogHandler.TrendingBlogs)
	r.POST("/search-blogs", blogHandler.SearchBlogs)
	r.POST("/all-latest-blogs-count", blogHandler.AllLatestBlogsCount)
	r.POST("/search-blogs-count", blogHandler.SearchBlogsCount)
	r.POST("/get-blog", blogHandler.GetBlog)

	// 评论公开路由
	r.POST("/get-blog-comments", commentHandler.GetBlogComments)
	r.POST("/get-replies", commentHandler.GetReplies)

	// 用户公开路由
	r.POST("/search-users", profileHandler.SearchUsers)
	r.POST("/get-profile", profileHandler.GetProfile)

	// 图片直传地址
	r.GET("/get-upload-url", uploadHandler.GetUploadURL)

	// 需要认证的路由
	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 发布与删除仅限管理员
		authorized.POST("/create-blog", middleware.AdminMiddleware(), blogHandler.CreateBlog)
		authorized.POST("/user-written-blogs", blogHandler.UserWrittenBlogs)
		authorized.POST("/user-written-blogs-count", blogHandler.UserWrittenBlogsCount)
		authorized.POST("/delete-blog", middleware.AdminMiddleware(), blogHandler.DeleteBlog)

		authorized.POST("/like-blog", notificationHandler.LikeBlog)
		authorized.POST("/isLike-by-user", notificationHandler.IsLikedByUser)
		authorized.GET("/new-notification", notificationHandler.NewNotification)
		authorized.POST("/notifications", notificationHandler.Notifications)
		authorized.POST("/all-notifications-count", notificationHandler.AllNotificationsCount)

		authorized.POST("/add-comment", commentHandler.AddComment)
		authorized.POST("/delete-comments", commentHandler.DeleteComment)

		authorized.POST("/change-password", profileHandler.ChangePassword)
		authorized.POST("/update-profile-image", profileHandler.UpdateProfileImage)
		authorized.POST("/update-profile", profileHandler.UpdateProfile)
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}
