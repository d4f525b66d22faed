// Вспомогательные функции DAO: создание пользователя по умолчанию,
// генерация паролей и хэшей, обновление времени активности.
package dao

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func AddDefaultUser(db *gorm.DB, email string) {
	pass := "pbkdf2_sha256$260000$QM9bPwqeyc3Ed2LYppRoNN$BRt1aWr5wV3uqY/14k24Fnhaj1+TWExblkXUjFJKHDw=" // password123
	ubx := "admin"
	tm := time.Now()
	user := User{
		ID:              GenUUID(),
		Email:           email,
		Password:        pass,
		Username:        &ubx,
		Role:            types.RolePM,
		LastActive:      &tm,
		LastLoginTime:   &tm,
		LastLoginIp:     "0.0.0.0",
		LastLoginUagent: "golang",
		TokenUpdatedAt:  &tm,
		IsActive:        true,
		IsSuperuser:     true,
	}

	if err := db.Create(&user).Error; err != nil {
		log.Println(err)
	} else {
		log.Println("User created")
	}
}

func GenPassword() string {
	return password.MustGenerate(12, 6, 0, false, false)
}

// Генерация хэша пароля для базы
func GenPasswordHash(password string) string {
	letters := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	salt := make([]rune, 32)
	for i := range salt {
		nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		salt[i] = letters[nBig.Int64()]
	}

	return fmt.Sprintf("pbkdf2_sha256$260000$%s$%s",
		string(salt),
		base64.StdEncoding.EncodeToString(pbkdf2.Key([]byte(password), []byte(string(salt)), 260000, 32, sha256.New)),
	)
}

func UpdateUserLastActivityTime(tx *gorm.DB, user *User) error {
	// User table update cooldown
	if user.LastActive != nil && time.Since(*user.LastActive) <= time.Second*10 {
		return nil
	}
	return tx.Omit(clause.Associations).Model(user).UpdateColumn("last_active", time.Now()).Error
}
