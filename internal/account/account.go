// Package account stores the credentials of the signed-in user.
//
// The credential file holds base64(JSON(UserAccountKey)). Base64 is only
// obfuscation; the file is written with owner-only permissions.
package account

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/utils"
)

// MaxFieldLength 注册字段最大长度（字节）
const MaxFieldLength = 30

const filePerm = 0600

// UserAccountKey 登录后保存在本地的账户信息
type UserAccountKey struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Key      string `json:"key"`
}

// UserAccountData 注册请求体
type UserAccountData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration fields and that confirm repeats the
// password.
func (d *UserAccountData) Validate(confirm string) error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.Username, validation.Required, validation.By(maxBytes(MaxFieldLength))),
		validation.Field(&d.Email, validation.Required, validation.By(maxBytes(MaxFieldLength))),
		validation.Field(&d.Password, validation.Required, validation.By(maxBytes(MaxFieldLength))),
	)
	if err != nil {
		return apperr.Wrap(apperr.ErrInvalidInput, err, "invalid account data")
	}
	if d.Password != confirm {
		return apperr.InvalidInput("the confirm password is incorrect")
	}
	return nil
}

// Save 写入凭据文件（覆盖已有文件）
func Save(path string, key *UserAccountKey) error {
	if key == nil || key.Username == "" || key.Key == "" {
		return apperr.InvalidInput("account key is incomplete")
	}
	if err := utils.WriteEncodedFile(path, key, filePerm); err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "cannot save account")
	}
	return nil
}

// Load 读取凭据文件；文件不存在表示未登录
func Load(path string) (*UserAccountKey, error) {
	var key UserAccountKey
	if err := utils.ReadEncodedFile(path, &key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("not logged in")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, err, "account file %s is corrupted", path)
	}
	if key.Username == "" || key.Key == "" {
		return nil, apperr.Internal("account file %s is incomplete", path)
	}
	return &key, nil
}

// maxBytes limits the encoded size of a string field, not its rune count.
func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes long", n)
		}
		return nil
	}
}

// Exists reports whether a credential file is present.
func Exists(path string) bool {
	return utils.FileExists(path)
}

// Remove 删除凭据文件；未登录时返回 ErrNotFound
func Remove(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.NotFound("not logged in")
		}
		return apperr.Wrap(apperr.ErrInternal, err, "cannot remove account")
	}
	return nil
}
