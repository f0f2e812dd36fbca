/*
Package accessmgr keeps track of the wallets written since the last backup
and backs them up when the scheduler asks. Only the dirty wallets are copied.
*/
package accessmgr

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Backuper writes a copy of an open wallet to the file.
type Backuper interface {
	Backup(ctx context.Context, wallet int, filename string) error
}

type mapType map[string]int

// Mgr is the access manager of the wallets.
type Mgr struct {
	b   Backuper
	dir string

	DateTimeInName bool

	l        sync.Mutex
	accessed mapType // wallet ID -> wallet handle
}

// New creates the access manager which writes the backups to dir.
func New(b Backuper, dir string) *Mgr {
	return &Mgr{
		b:              b,
		dir:            dir,
		DateTimeInName: true,
		accessed:       make(mapType),
	}
}

// Touch marks the wallet to be backed up in the next round.
func (m *Mgr) Touch(id string, wallet int) {
	m.l.Lock()
	defer m.l.Unlock()

	if _, ok := m.accessed[id]; ok {
		glog.V(3).Infoln("wallet access already registered:", id)
	}
	m.accessed[id] = wallet
}

// StartBackup starts the backup of the wallets touched since the previous
// backup. It returns immediately, the scheduler calls it.
func (m *Mgr) StartBackup() {
	go m.Backup(context.Background())
}

// Backup backs up the touched wallets and returns the count of successful
// backups. A failed wallet is logged and touched again.
func (m *Mgr) Backup(ctx context.Context) (count int) {
	m.l.Lock()
	wallets := m.accessed
	m.accessed = make(mapType)
	m.l.Unlock()

	for id, h := range wallets {
		if err := m.b.Backup(ctx, h, m.filename(id)); err != nil {
			glog.Errorf("error in backup of %s: %v", id, err)
			m.Touch(id, h)
			continue
		}
		glog.V(1).Infoln("successful wallet backup:", id)
		count++
	}
	return count
}

func (m *Mgr) filename(id string) string {
	return filepath.Join(m.dir, backupName(id, m.DateTimeInName)+".bolt")
}

func backupName(baseName string, dateTime bool) string {
	if !dateTime {
		return baseName
	}
	tsStr := time.Now().UTC().Format("20060102T150405Z")
	name := tsStr + "_" + baseName
	glog.V(3).Infoln("backup name:", name)
	return name
}
