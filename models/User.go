package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrDuplicateFavorite is returned when a property is already in the set.
var ErrDuplicateFavorite = errors.New("property is already a favorite")

type User struct {
	gorm.Model
	Name      string         `json:"name"`
	Email     string         `json:"email" gorm:"index"`
	Mobile    string         `json:"mobile" gorm:"index"`
	Password  string         `json:"-"`
	Role      string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, agent, admin
	IsActive  *bool          `json:"isActive" gorm:"default:true"`
	AvatarURL string         `json:"avatarURL"`
	Favorites datatypes.JSON `json:"favorites"` // property IDs

	// Password reset; only the sha256 of the emailed token is stored
	ResetTokenHash   string     `json:"-" gorm:"size:64;index"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// MarshalJSON expands the Favorites JSON column into a plain array so
// clients never see null or a raw JSON string.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Favorites []uint `json:"favorites"`
		*Alias
	}{
		Favorites: []uint{},
		Alias:     (*Alias)(u),
	}

	if u.Favorites != nil {
		var favorites []uint
		if err := json.Unmarshal(u.Favorites, &favorites); err == nil {
			aux.Favorites = favorites
		}
	}

	return json.Marshal(aux)
}

// FavoriteIDs decodes the Favorites column. A nil or corrupt column reads
// as an empty set.
func (u *User) FavoriteIDs() []uint {
	var ids []uint
	if u.Favorites != nil {
		json.Unmarshal(u.Favorites, &ids)
	}
	return ids
}

// SetFavoriteIDs reassigns the whole favorites set. Callers filter into a
// fresh slice first instead of mutating in place.
func (u *User) SetFavoriteIDs(ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	u.Favorites = raw
	return nil
}

// AddFavoriteID appends a property to the favorites set. Adding one
// already present is an explicit conflict, not a silent no-op.
func (u *User) AddFavoriteID(propertyID uint) error {
	ids := u.FavoriteIDs()
	for _, id := range ids {
		if id == propertyID {
			return ErrDuplicateFavorite
		}
	}
	return u.SetFavoriteIDs(append(ids, propertyID))
}

// RemoveFavoriteID filters the set into a fresh slice and reassigns it.
// Removing an absent favorite is a no-op; the return reports whether the
// set changed.
func (u *User) RemoveFavoriteID(propertyID uint) (bool, error) {
	removed := false
	var remaining []uint
	for _, id := range u.FavoriteIDs() {
		if id == propertyID {
			removed = true
			continue
		}
		remaining = append(remaining, id)
	}
	if err := u.SetFavoriteIDs(remaining); err != nil {
		return false, err
	}
	return removed, nil
}
