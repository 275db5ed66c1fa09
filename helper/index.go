package helper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
)

const SessionTTL = 12 * time.Hour

var JwtSecret = []byte("change-me")

func SetJWTSecret(secret string) {
	JwtSecret = []byte(secret)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateSessionToken signs the admin session carried in the session cookie.
func GenerateSessionToken(claim model.SessionClaim, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"adminId":  claim.AdminID,
		"username": claim.Username,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(JwtSecret)
}

func ParseSessionToken(tokenString string) (model.SessionClaim, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})
	if err != nil {
		return model.SessionClaim{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.SessionClaim{}, errors.New("invalid token claims")
	}
	adminID, ok := claims["adminId"].(float64)
	if !ok {
		return model.SessionClaim{}, errors.New("invalid adminId in payload")
	}
	username, _ := claims["username"].(string)
	return model.SessionClaim{AdminID: uint(adminID), Username: username}, nil
}
