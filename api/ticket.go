package api

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TicketTTL bounds how long a websocket connect ticket stays valid. Tickets
// are single-purpose and short-lived because they travel in a query string.
const TicketTTL = 60 * time.Second

// NewRealtimeTicket signs a short-lived token that lets userID open a
// websocket connection.
func NewRealtimeTicket(userID, role string) (string, error) {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		return "", fmt.Errorf("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"typ":  "ticket",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(TicketTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseRealtimeTicket validates a connect ticket and returns the user id and
// role it was issued for.
func ParseRealtimeTicket(ticket string) (userID, role string, err error) {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		return "", "", fmt.Errorf("JWT_SECRET is not set")
	}

	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid ticket")
	}
	if typ, _ := claims["typ"].(string); typ != "ticket" {
		return "", "", fmt.Errorf("not a connect ticket")
	}
	userID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if userID == "" {
		return "", "", fmt.Errorf("ticket missing subject")
	}
	return userID, role, nil
}
