/*
Package executor is the single HTTP transport of the API layer.

# Overview

A Client is built once from Options and shared by every service:
  - Joins request paths to the configured base URL
  - Encodes JSON bodies and multipart file uploads
  - Attaches the bearer token held by the session store
  - Enforces the client-wide timeout, or a per-request one
  - Routes every response through exactly one of two paths

# Response Paths

2xx responses go to the normalizer (package normalize), which reduces the
backend's envelope variants to a single Result. A normalizer error on a 2xx
response is surfaced once through the classifier.

Non-2xx responses and network errors go to the classifier (package
classifier), which picks one user-facing message, notifies once, and clears
the session on 401.

Either way the caller receives an *apierr.Error that has already been shown
to the user, so callers branch on it without notifying again.

# Headers

Every request carries:
  - Content-Type: application/json;charset=utf-8 (multipart boundary for uploads)
  - ngrok-skip-browser-warning: true
  - X-Request-ID: a fresh UUID, also written to the exchange record
  - Authorization: Bearer <token>, only while a token is held

# Example Usage

	store, _ := session.OpenDefault()
	client, err := executor.New(executor.Options{
		BaseURL:     opts.BaseURL,
		Timeout:     opts.Timeout(),
		Credentials: store,
		Notifier:    notify.NewTerminal(os.Stderr),
		Logger:      log,
	})
	if err != nil {
		return err
	}

	var trainer types.Trainer
	if err := client.Get(ctx, "/user/trainers/"+id, &trainer); err != nil {
		return err // already surfaced
	}

	res, err := client.Do(ctx, types.NewRequest("GET", "/exercise").WithQuery("page", "1"))
	page, err := normalize.DecodePage[types.Exercise](res)

# Thread Safety

A Client is safe for concurrent use. Batch uploads call it from several
goroutines at once.

# Recording

When Options.Recorder is set, every finished exchange (success or failure)
is handed to it. The history package provides a SQLite-backed recorder.
*/
package executor
