// Package types defines the Key type, the storage value kinds, the untyped
// Map and PreferenceStore interfaces, and the standard error types shared by
// the typed container and the typed preferences.
package types
