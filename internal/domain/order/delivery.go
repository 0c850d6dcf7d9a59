package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tarifas de envío en rupias según la zona detectada en la dirección.
var (
	feeValley = decimal.NewFromInt(100) // valle de Katmandú
	feeNear   = decimal.NewFromInt(200) // ciudades cercanas (< 50 km)
	feeMid    = decimal.NewFromInt(300) // ciudades intermedias (50-150 km)
	feeFar    = decimal.NewFromInt(500) // regiones lejanas
)

// Listas de palabras clave por nivel, evaluadas en orden: gana el primer
// nivel que contenga una coincidencia. "patan" está en el nivel cercano
// aunque sea parte del valle; el orden histórico se conserva.
var (
	valleyKeywords = []string{"kathmandu", "lalitpur", "bhaktapur", "ktm"}
	nearKeywords   = []string{"pokhara", "biratnagar", "patan", "kirtipur", "madhyapur"}
	midKeywords    = []string{"chitwan", "butwal", "hetauda", "dharan"}
)

// DeliveryCharge calcula la tarifa de envío a partir de la dirección
// (servicio de dominio, función pura). La comparación es por substring sin
// distinguir mayúsculas. Una dirección vacía usa la tarifa mínima; una
// dirección sin coincidencias usa la tarifa de región lejana.
func DeliveryCharge(address string) decimal.Decimal {
	if strings.TrimSpace(address) == "" {
		return feeValley
	}
	lower := strings.ToLower(address)
	for _, kw := range valleyKeywords {
		if strings.Contains(lower, kw) {
			return feeValley
		}
	}
	for _, kw := range nearKeywords {
		if strings.Contains(lower, kw) {
			return feeNear
		}
	}
	for _, kw := range midKeywords {
		if strings.Contains(lower, kw) {
			return feeMid
		}
	}
	return feeFar
}
