package config

import (
	"context"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// ConnectFirebaseWithRetry opens the Firestore and Firebase Auth clients.
// Call this from main() AFTER the HTTP server is listening: Cloud Run
// requires the container to start listening on $PORT quickly, so startup
// must not block on upstream connectivity.
//
// Env:
//   - FIREBASE_PROJECT_ID (optional when the credentials file carries it)
//   - FIREBASE_CREDENTIALS: path to a service account file; falls back to
//     application default credentials when unset.
func ConnectFirebaseWithRetry(ctx context.Context) (*firestore.Client, *auth.Client) {
	logger := GetLogger()

	cfg := &firebase.Config{}
	if projectID := os.Getenv("FIREBASE_PROJECT_ID"); projectID != "" {
		cfg.ProjectID = projectID
	}

	var opts []option.ClientOption
	if credentials := os.Getenv("FIREBASE_CREDENTIALS"); credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}

	var attempt int
	for {
		attempt++

		app, err := firebase.NewApp(ctx, cfg, opts...)
		if err == nil {
			var fs *firestore.Client
			fs, err = app.Firestore(ctx)
			if err == nil {
				var au *auth.Client
				au, err = app.Auth(ctx)
				if err == nil {
					logger.WithFields(logrus.Fields{
						"field": "firebase",
					}).Info("connected to Firestore and Firebase Auth")
					return fs, au
				}
				fs.Close()
			}
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "firebase",
			"attempt": attempt,
		}).Warn("failed to connect to firebase; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}
}
