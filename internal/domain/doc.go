// Package domain contains the core business entities of the application,
// users and tasks, together with the validation rules that keep them
// consistent. It is independent of any infrastructure or delivery mechanism.
package domain
