// Package store regroupe tout l'accès PostgreSQL. Les requêtes sont
// construites avec squirrel (placeholders $N), jamais par concaténation.
package store

import (
	"math"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var (
	db *sqlx.DB
	QB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
)

// SetDB fixe la connexion globale (appelé au boot, et par les tests)
func SetDB(database *sqlx.DB) {
	db = database
}

// DB retourne la connexion pour les handlers qui font leurs propres requêtes
func DB() *sqlx.DB {
	return db
}

// round2 arrondit au centime — les montants sont toujours stockés arrondis
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
