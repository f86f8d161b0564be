// Package companyapi implements the HTTP client for the external company
// database count API. It converts normalized criteria bundles into the
// API's wire format and classifies failures into typed errors so callers
// can distinguish auth problems, bad criteria, and transport faults.
package companyapi
