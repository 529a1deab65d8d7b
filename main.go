package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"proxima/backend/projects-service/handlers"
	"proxima/backend/projects-service/logging"
	"proxima/backend/projects-service/middleware"
	"proxima/backend/projects-service/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Projects Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	redisAddr := os.Getenv("REDIS_ADDR")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	projectsCollection := db.Collection("projects")
	tasksCollection := db.Collection("tasks")
	usersCollection := db.Collection("users")

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logging.Logger.Fatalf("Event ID: REDIS_PING_FAILED, Description: Redis connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: REDIS_CONNECTED, Description: Successfully connected to Redis at %s.", redisAddr)

	storeBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "MongoStoreCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			// A miss is an answer from the store, not a store failure.
			return err == nil || errors.Is(err, mongo.ErrNoDocuments)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	blacklist := services.NewTokenBlacklist(redisClient)

	projectService := services.NewProjectService(projectsCollection, storeBreaker)
	taskService := services.NewTaskService(tasksCollection, storeBreaker)
	userService := services.NewUserService(usersCollection, storeBreaker)

	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService, blacklist)

	r := mux.NewRouter()

	userRouter := r.PathPrefix("/api/user").Subrouter()
	userRouter.HandleFunc("/signup", userHandler.Signup).Methods("POST")
	userRouter.HandleFunc("/login", userHandler.Login).Methods("POST")
	userRouter.HandleFunc("/logout", userHandler.Logout).Methods("POST")

	projectRouter := r.PathPrefix("/api/projects").Subrouter()
	projectRouter.Use(middleware.JWTAuthMiddleware(blacklist))
	projectRouter.HandleFunc("", projectHandler.GetAllProjects).Methods("GET")
	projectRouter.HandleFunc("", projectHandler.PostProject).Methods("POST")
	projectRouter.HandleFunc("/{id}", projectHandler.GetSingleProject).Methods("GET")
	projectRouter.HandleFunc("/{id}", projectHandler.UpdateProject).Methods("PATCH")
	projectRouter.HandleFunc("/{id}", projectHandler.DeleteProject).Methods("DELETE")
	projectRouter.HandleFunc("/{project_id}/tasks", taskHandler.RetrieveTasks).Methods("GET")
	projectRouter.HandleFunc("/{project_id}/tasks", taskHandler.AddTask).Methods("POST")
	projectRouter.HandleFunc("/{project_id}/tasks/{task_id}", taskHandler.DeleteTask).Methods("DELETE")
	projectRouter.HandleFunc("/{project_id}/tasks/{task_id}/complete", taskHandler.CompleteTask).Methods("PATCH")

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
