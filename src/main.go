package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gorilla/mux"
	"github.com/lpernett/godotenv"
	"github.com/opensearch-project/opensearch-go"
	"github.com/redis/go-redis/v9"

	"qmoi_services/src/friendship"
	h "qmoi_services/src/handlers"
	"qmoi_services/src/inits"
	"qmoi_services/src/paystore"
)

func main() {
	ctx := context.Background()

	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Postgres Initialization
	connString := fmt.Sprintf("user=%v password=%v host=%v port=%v dbname=%v",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"), os.Getenv("DB_NAME"))
	connPool, err := inits.CreatePostgresPool(connString, ctx)
	if err != nil {
		log.Fatalf("Unable to create postgres pool: %v", err)
	}
	defer connPool.Pool.Close()

	// Redis Initialization
	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// OpenSearch Initialization
	searchClient, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{os.Getenv("OPENSEARCH_ADDR")},
	})
	if err != nil {
		log.Fatalf("Unable to create opensearch client: %v", err)
	}
	inits.InitOpenSearch(ctx, connPool, searchClient)

	// GCS Initialization
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("Unable to create storage client: %v", err)
	}
	archiveBucket := os.Getenv("GCS_BUCKET")

	// Firebase Initialization (check-in pushes are skipped if unavailable)
	var messagingClient *messaging.Client
	firebaseApp, err := firebase.NewApp(ctx, nil)
	if err != nil {
		log.Printf("Firebase unavailable: %v", err)
	} else {
		messagingClient, err = firebaseApp.Messaging(ctx)
		if err != nil {
			log.Printf("Firebase messaging unavailable: %v", err)
		}
	}

	// Payment Store Initialization
	paymentPath := os.Getenv("PAYMENT_STORE_PATH")
	if paymentPath == "" {
		paymentPath = "payments.jsonl"
	}
	payments, err := paystore.Open(paymentPath)
	if err != nil {
		log.Fatalf("Unable to open payment store: %v", err)
	}
	defer payments.Close()

	// Friendship Core Initialization
	core := friendship.NewCore()
	inits.LoadProfiles(ctx, connPool, core)

	// JWT Validation Middleware
	issuerURL, err := url.Parse("https://" + os.Getenv("AUTH0_DOMAIN") + "/")
	if err != nil {
		log.Fatalf("Unable to parse issuer url: %v", err)
	}
	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	jwtValidator, err := validator.New(provider.KeyFunc, validator.RS256,
		issuerURL.String(), []string{os.Getenv("AUTH0_AUDIENCE")})
	if err != nil {
		log.Fatalf("Unable to set up jwt validator: %v", err)
	}
	checkJWT := jwtmiddleware.New(jwtValidator.ValidateToken)

	//Server Starting String
	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "2525"
	}
	serverString := fmt.Sprintf("%v:%v", host, port)

	//Route Register
	router := mux.NewRouter()
	router.HandleFunc("/", connPool.GETHandlerRoot)
	router.Handle("/ws", checkJWT.CheckJWT(h.WebSocketEndpointHandler(connPool, rdb, ctx)))
	router.Handle("/users", checkJWT.CheckJWT(h.UserEndpointHandler(connPool)))
	router.Handle("/chat", checkJWT.CheckJWT(h.ChatEndpointHandler(ctx, connPool, rdb, searchClient, messagingClient, core)))
	router.Handle("/chat/history", checkJWT.CheckJWT(h.ChatEndpointHandler(ctx, connPool, rdb, searchClient, messagingClient, core)))
	router.Handle("/profile", checkJWT.CheckJWT(h.ProfileEndpointHandler(ctx, connPool, core)))
	router.Handle("/apikey", checkJWT.CheckJWT(h.APIKeyEndpointHandler(ctx, connPool)))
	router.Handle("/payments", checkJWT.CheckJWT(h.PaymentEndpointHandler(payments)))
	router.Handle("/search", checkJWT.CheckJWT(h.SearchEndpointHandler(ctx, connPool, searchClient)))
	router.Handle("/fcm", checkJWT.CheckJWT(h.FirebaseHandlers(connPool, ctx)))
	router.Handle("/monitor", h.RequireAPIKey(ctx, connPool, h.MonitorEndpointHandler(ctx, connPool, rdb)))
	router.Handle("/export", h.RequireAPIKey(ctx, connPool, h.ExportEndpointHandler(ctx, connPool, gcsClient, archiveBucket)))

	//Start Server
	fmt.Printf("Server is starting on %v...\n", serverString)
	err = http.ListenAndServe(serverString, router)
	if err != nil {
		fmt.Printf("Error starting the server: %v\n", err)
	}

}
