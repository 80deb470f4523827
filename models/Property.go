package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

var (
	ErrAlreadyApproved = errors.New("property is already approved")
	ErrAlreadyRejected = errors.New("property is already rejected")
	ErrEmptyReason     = errors.New("rejection reason is required")
)

// PropertyImage is one entry of the ordered image list. At most one image
// carries IsPrimary; NormalizeImages enforces that before every save.
type PropertyImage struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"isPrimary"`
}

type Property struct {
	gorm.Model
	OwnerID      uint    `json:"ownerID" gorm:"not null;index"`
	Owner        User    `json:"owner" gorm:"foreignKey:OwnerID"`
	AgentID      *uint   `json:"agentID" gorm:"index"`
	Title        string  `json:"title"`
	Description  string  `json:"description" gorm:"type:text"`
	Price        float64 `json:"price"`
	Status       string  `json:"status" gorm:"type:varchar(20);default:'for-sale';index"` // for-sale, for-rent, sold, rented
	PropertyType string  `json:"propertyType" gorm:"type:varchar(20);index"`              // apartment, house, commercial, industrial, land
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	Area         float64 `json:"area"`
	AreaUnit     string  `json:"areaUnit" gorm:"type:varchar(16)"`

	Address  string  `json:"address"`
	City     string  `json:"city" gorm:"index"`
	District string  `json:"district" gorm:"index"`
	Taluka   string  `json:"taluka"`
	Village  string  `json:"village"`
	Lat      float32 `json:"lat"`
	Lng      float32 `json:"lng"`

	LandRecord    datatypes.JSON `json:"landRecord"` // survey/gut numbers etc., only for type=land
	Disadvantages datatypes.JSON `json:"disadvantages"`
	Amenities     datatypes.JSON `json:"amenities"`
	Images        datatypes.JSON `json:"images"`    // []PropertyImage, ordered
	Documents     datatypes.JSON `json:"documents"` // category -> object reference

	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`

	Views       int   `json:"views" gorm:"default:0"`
	IsFeatured  bool  `json:"isFeatured" gorm:"default:false;index"`
	IsPublished *bool `json:"isPublished" gorm:"default:false;index"`

	ApprovalStatus  string     `json:"approvalStatus" gorm:"type:varchar(20);default:'pending';index"`
	ApprovedBy      *uint      `json:"approvedBy"`
	ApprovedAt      *time.Time `json:"approvedAt"`
	RejectionReason string     `json:"rejectionReason" gorm:"type:text"`
}

// PubliclyVisible reports whether anonymous traffic may see the listing.
func (p *Property) PubliclyVisible() bool {
	return (p.IsPublished != nil && *p.IsPublished) || p.ApprovalStatus == ApprovalApproved
}

// Approve transitions pending/rejected -> approved and publishes the
// listing. Re-approving is rejected so the audit trail stays meaningful.
func (p *Property) Approve(adminID uint) error {
	if p.ApprovalStatus == ApprovalApproved {
		return ErrAlreadyApproved
	}
	now := time.Now()
	published := true
	p.ApprovalStatus = ApprovalApproved
	p.ApprovedBy = &adminID
	p.ApprovedAt = &now
	p.RejectionReason = ""
	p.IsPublished = &published
	return nil
}

// Reject transitions pending/approved -> rejected and unpublishes the
// listing. A reason is mandatory.
func (p *Property) Reject(adminID uint, reason string) error {
	if reason == "" {
		return ErrEmptyReason
	}
	if p.ApprovalStatus == ApprovalRejected {
		return ErrAlreadyRejected
	}
	now := time.Now()
	published := false
	p.ApprovalStatus = ApprovalRejected
	p.ApprovedBy = &adminID
	p.ApprovedAt = &now
	p.RejectionReason = reason
	p.IsPublished = &published
	return nil
}

// ImageList decodes the Images column; nil or corrupt reads as empty.
func (p *Property) ImageList() []PropertyImage {
	var images []PropertyImage
	if p.Images != nil {
		json.Unmarshal(p.Images, &images)
	}
	return images
}

// SetImageList reassigns the whole image list after normalization.
func (p *Property) SetImageList(images []PropertyImage) error {
	raw, err := json.Marshal(NormalizeImages(images))
	if err != nil {
		return err
	}
	p.Images = raw
	return nil
}

// NormalizeImages keeps at most one primary image. If several are marked,
// the first wins; if none is marked and the list is non-empty, the first
// becomes primary.
func NormalizeImages(images []PropertyImage) []PropertyImage {
	if images == nil {
		return []PropertyImage{}
	}
	out := make([]PropertyImage, len(images))
	copy(out, images)
	seenPrimary := false
	for i := range out {
		if out[i].IsPrimary {
			if seenPrimary {
				out[i].IsPrimary = false
			}
			seenPrimary = true
		}
	}
	if !seenPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}
	return out
}

// MarshalJSON expands the JSON columns into concrete arrays/objects and
// suppresses the circular Owner edge unless it was preloaded.
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images        []PropertyImage   `json:"images"`
		Amenities     []string          `json:"amenities"`
		Disadvantages []string          `json:"disadvantages"`
		Documents     map[string]string `json:"documents"`
		LandRecord    map[string]string `json:"landRecord,omitempty"`
		Owner         *User             `json:"owner,omitempty"`
		*Alias
	}{
		Images:        []PropertyImage{},
		Amenities:     []string{},
		Disadvantages: []string{},
		Documents:     map[string]string{},
		Alias:         (*Alias)(p),
	}

	if p.Images != nil {
		var images []PropertyImage
		if err := json.Unmarshal(p.Images, &images); err == nil {
			aux.Images = images
		}
	}
	if p.Amenities != nil {
		var amenities []string
		if err := json.Unmarshal(p.Amenities, &amenities); err == nil {
			aux.Amenities = amenities
		}
	}
	if p.Disadvantages != nil {
		var disadvantages []string
		if err := json.Unmarshal(p.Disadvantages, &disadvantages); err == nil {
			aux.Disadvantages = disadvantages
		}
	}
	if p.Documents != nil {
		var documents map[string]string
		if err := json.Unmarshal(p.Documents, &documents); err == nil {
			aux.Documents = documents
		}
	}
	if p.LandRecord != nil {
		var record map[string]string
		if err := json.Unmarshal(p.LandRecord, &record); err == nil {
			aux.LandRecord = record
		}
	}

	if p.Owner.ID > 0 {
		ownerCopy := p.Owner
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}
