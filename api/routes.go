package api

import (
	"github.com/gorilla/mux"

	"github.com/answerhub/answerhub/internal/auth"
	"github.com/answerhub/answerhub/internal/qna"
	"github.com/answerhub/answerhub/pkg/repository"
)

func SetupRoutes(version, buildTime string, store repository.Store, tokens *auth.Manager) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	svc := qna.NewService(store, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(store, tokens)
	usersHandler := NewUsersHandler(svc)
	questionsHandler := NewQuestionsHandler(svc)
	answersHandler := NewAnswersHandler(svc)

	// System endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// User endpoints
	r.HandleFunc("/user/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/user/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/user", usersHandler.ListUsers).Methods("GET")
	r.HandleFunc("/user/{id}", usersHandler.GetUser).Methods("GET")
	r.HandleFunc("/user/{id}", usersHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/user/{id}/reputation/{targetId}", usersHandler.IncreaseReputation).Methods("PUT")
	r.HandleFunc("/user/{id}", usersHandler.DeleteUser).Methods("DELETE")

	// Logout needs the bearer token it revokes
	logoutRoute := r.PathPrefix("/user/logout").Subrouter()
	logoutRoute.Use(AuthMiddleware(tokens))
	logoutRoute.HandleFunc("", authHandler.Logout).Methods("POST")

	// Question endpoints
	r.HandleFunc("/question/questions", questionsHandler.CreateQuestion).Methods("POST")
	r.HandleFunc("/question/questions", questionsHandler.ListQuestions).Methods("GET")
	r.HandleFunc("/question/questions/user/{id}", questionsHandler.ListQuestionsByUser).Methods("GET")
	r.HandleFunc("/question/questions/details/{id}", questionsHandler.GetQuestionDetail).Methods("GET")
	r.HandleFunc("/question/questions/{id}", questionsHandler.GetQuestion).Methods("GET")
	r.HandleFunc("/question/questions/{id}", questionsHandler.UpdateQuestion).Methods("PUT")
	r.HandleFunc("/question/questions/{id}", questionsHandler.DeleteQuestion).Methods("DELETE")

	// Answer endpoints
	r.HandleFunc("/answer/answers", answersHandler.CreateAnswer).Methods("POST")
	r.HandleFunc("/answer/answers", answersHandler.ListAnswers).Methods("GET")
	r.HandleFunc("/answer/answers/question/{id}", answersHandler.ListAnswersByQuestion).Methods("GET")
	r.HandleFunc("/answer/answers/{id}", answersHandler.GetAnswer).Methods("GET")
	r.HandleFunc("/answer/answers/{id}", answersHandler.UpdateAnswer).Methods("PUT")
	r.HandleFunc("/answer/answers/{id}", answersHandler.DeleteAnswer).Methods("DELETE")
	r.HandleFunc("/answer/{userId}/upvote/answer/{answerId}", answersHandler.UpvoteAnswer).Methods("PUT")
	r.HandleFunc("/answer/{userId}/revoke/answer/{answerId}", answersHandler.RevokeUpvoteAnswer).Methods("PUT")

	return r
}
