package machine

import (
	"context"

	"gorm.io/datatypes"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
)

// Machine is a listed compute machine. Records are immutable once listed;
// the id comes from the machine_id sequence (first listing gets 10001).
type Machine struct {
	ID           int64                      `gorm:"column:id;primary_key" json:"id"`
	CPU          string                     `gorm:"column:cpu" json:"cpu"`
	GPU          string                     `gorm:"column:gpu" json:"gpu"`
	VCPUs        int64                      `gorm:"column:vcpus" json:"vcpus"`
	RAMGB        int64                      `gorm:"column:ram_gb" json:"ram_gb"`
	StorageGB    int64                      `gorm:"column:storage_gb" json:"storage_gb"`
	NetSpeed     int64                      `gorm:"column:net_speed" json:"net_speed"`
	IP           string                     `gorm:"column:ip" json:"ip"`
	Ports        datatypes.JSONSlice[int64] `gorm:"column:ports" json:"ports"`
	Region       string                     `gorm:"column:region" json:"region"`
	PricePerHour int64                      `gorm:"column:price_per_hour" json:"price_per_hour"`
	Owner        string                     `gorm:"column:owner" json:"owner"`
	datastore.ModelWithTS
}

func (Machine) TableName() string {
	return "machines"
}

func GetMachine(ctx context.Context, id int64) (*Machine, error) {
	db := datastore.GetStore().GetTransaction(ctx)
	m := &Machine{}
	err := db.First(m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Machine) Save(ctx context.Context) error {
	db := datastore.GetStore().GetTransaction(ctx)
	return db.Create(m).Error
}
