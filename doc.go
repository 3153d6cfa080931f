// Package dailydigest provides top-level metadata for the Daily Digest API.
//
// @title Daily Digest API
// @version 1.0.0
// @description Operator API for the daily commit digest service: users, GitHub credentials, reports and jobs.
// @BasePath /
// @securityDefinitions.apikey OperatorAuth
// @in header
// @name Authorization
// @description Provide the operator bearer token as `Bearer <token>`.
package dailydigest
