// Package retry provides transient-error classification and exponential
// backoff for database connection attempts.
//
// Connection establishment is the only retried operation in this tool:
// DDL statements are never retried automatically, because a failed
// CREATE DATABASE or CREATE EXTENSION needs human eyes, not a second try.
package retry
