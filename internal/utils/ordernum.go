package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber produit un numéro lisible partagé par toutes les
// commandes d'un même checkout : SL-<timestamp>-<suffixe aléatoire>.
// L'unicité est best-effort, la clé primaire reste l'id.
func GenerateOrderNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("SL-%d-%04d", time.Now().Unix(), suffix)
}
