package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kgcas/alumni-connect-api/api"
	"github.com/kgcas/alumni-connect-api/config"
	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	auth := api.Auth{Secret: []byte(a.Config.JWTSecret)}

	r := mux.NewRouter()

	udb := databases.NewUserDatabase(a.dbHelper)
	jdb := databases.NewJobDatabase(a.dbHelper)
	mdb := databases.NewMentorshipDatabase(a.dbHelper)
	edb := databases.NewEventDatabase(a.dbHelper)
	msgdb := databases.NewMessageDatabase(a.dbHelper)

	au := Auth{DB: udb, Config: a.Config}
	u := User{DB: udb, JDB: jdb, MDB: mdb, EDB: edb}
	j := Job{DB: jdb, UDB: udb}
	m := Mentorship{DB: mdb, UDB: udb}
	e := Event{DB: edb, UDB: udb}
	chat := Chat{DB: msgdb}
	relay := NewRelay(msgdb)
	uploadHandler := UploadSignatureHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	r.Use(api.LoggingMiddleware)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	// account lifecycle, public
	apiCreate.Handle("/auth/register", http.HandlerFunc(au.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/verify-otp", http.HandlerFunc(au.VerifyOTPHandler)).Methods("POST")
	apiCreate.Handle("/auth/login", http.HandlerFunc(au.LoginHandler)).Methods("POST")

	// profile & directory
	apiCreate.Handle("/auth/me", auth.Middleware(http.HandlerFunc(u.MeHandler))).Methods("GET")
	apiCreate.Handle("/auth/me/update", auth.Middleware(http.HandlerFunc(u.UpdateMeHandler))).Methods("PUT")
	apiCreate.Handle("/auth/users", auth.Middleware(http.HandlerFunc(u.UsersHandler))).Methods("GET")
	apiCreate.Handle("/auth/dashboard-stats", auth.Middleware(http.HandlerFunc(u.DashboardStatsHandler))).Methods("GET")

	// admin-only account management
	apiCreate.Handle("/auth/pending-users", auth.AdminMiddleware(http.HandlerFunc(au.PendingUsersHandler))).Methods("GET")
	apiCreate.Handle("/auth/approve/{user_id}", auth.AdminMiddleware(http.HandlerFunc(au.ApproveUserHandler))).Methods("PUT")
	apiCreate.Handle("/auth/reject/{user_id}", auth.AdminMiddleware(http.HandlerFunc(au.RejectUserHandler))).Methods("DELETE")
	apiCreate.Handle("/auth/stats", auth.AdminMiddleware(http.HandlerFunc(u.AdminStatsHandler))).Methods("GET")
	apiCreate.Handle("/auth/students", auth.AdminMiddleware(http.HandlerFunc(u.StudentsHandler))).Methods("GET")

	// job board
	apiCreate.Handle("/jobs", auth.Middleware(http.HandlerFunc(j.CreateJobHandler))).Methods("POST")
	apiCreate.Handle("/jobs", auth.Middleware(http.HandlerFunc(j.JobsHandler))).Methods("GET")
	apiCreate.Handle("/jobs/{job_id}", auth.Middleware(http.HandlerFunc(j.JobByIDHandler))).Methods("GET")

	// mentorship
	apiCreate.Handle("/mentorship/request", auth.Middleware(http.HandlerFunc(m.SendRequestHandler))).Methods("POST")
	apiCreate.Handle("/mentorship/my-requests", auth.Middleware(http.HandlerFunc(m.MyRequestsHandler))).Methods("GET")
	apiCreate.Handle("/mentorship/update/{request_id}", auth.Middleware(http.HandlerFunc(m.UpdateStatusHandler))).Methods("PUT")
	apiCreate.Handle("/mentorship/remove/{request_id}", auth.Middleware(http.HandlerFunc(m.RemoveConnectionHandler))).Methods("DELETE")
	apiCreate.Handle("/mentorship/mentors", auth.Middleware(http.HandlerFunc(m.MentorsHandler))).Methods("GET")

	// events & RSVP
	apiCreate.Handle("/events", auth.Middleware(http.HandlerFunc(e.CreateEventHandler))).Methods("POST")
	apiCreate.Handle("/events", auth.Middleware(http.HandlerFunc(e.EventsHandler))).Methods("GET")
	apiCreate.Handle("/events/rsvp/{event_id}", auth.Middleware(http.HandlerFunc(e.RSVPHandler))).Methods("PUT")
	apiCreate.Handle("/events/{event_id}", auth.Middleware(http.HandlerFunc(e.EventByIDHandler))).Methods("GET")
	apiCreate.Handle("/events/{event_id}", auth.Middleware(http.HandlerFunc(e.DeleteEventHandler))).Methods("DELETE")

	// chat history
	apiCreate.Handle("/chat/{receiver_id}", auth.Middleware(http.HandlerFunc(chat.HistoryHandler))).Methods("GET")

	// profile image upload signature
	apiCreate.Handle("/generate-signature", auth.Middleware(http.HandlerFunc(uploadHandler.GenerateSignature))).Methods("POST")

	// realtime relay, joined via join_room after connecting
	r.HandleFunc("/ws", relay.HandleWebSocket)

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("alumni-connect-api has connected to the database")

	// initialize api router
	a.Router = a.New()
	return nil
}

// UserDB exposes the user database for background jobs wired in main
func (a *App) UserDB() databases.UserDatabase {
	return databases.NewUserDatabase(a.dbHelper)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
