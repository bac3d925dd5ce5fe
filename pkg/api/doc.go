// Package api defines the shared vocabulary of the workflow engine: node and
// edge types, workflow definitions, execution records, and the request and
// response shapes exposed over HTTP
package api
