package utils

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

// GeneratePickupQR génère le QR de retrait d'une commande en base64,
// prêt à mettre dans <img src="...">. Le vendeur le scanne à la remise.
func GeneratePickupQR(orderNumber string) (string, error) {
	png, err := qrcode.Encode(orderNumber, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
