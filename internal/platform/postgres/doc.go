// Package postgres implements the internal/store persistence interfaces on
// top of PostgreSQL. It owns the SQL for users and tasks, the mapping between
// rows and domain entities, and the translation of driver errors into the
// store package's error taxonomy.
package postgres
