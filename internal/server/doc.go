// Package server exposes the predictor over HTTP.
//
// Routes:
//
//	GET    /             empty analysis form
//	POST   /             form submission (field "url"), renders the result
//	POST   /analyze-url  JSON API: {"url": "..."} -> {"prediction_label", "prediction_score"}
//	GET    /history      recent checks, newest first (?limit=N, ?url=U)
//	DELETE /history      clear the history
//	GET    /healthz      liveness and model identity
//
// The history routes are only mounted when a history store is configured.
// Every route goes through request ID, real IP, panic recovery, CORS, body
// size limit and access log middleware.
package server
