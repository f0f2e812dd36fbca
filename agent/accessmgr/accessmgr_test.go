package accessmgr

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type backupCall struct {
	wallet   int
	filename string
}

type fakeBackuper struct {
	sync.Mutex
	calls []backupCall
	fail  map[int]bool
}

func (f *fakeBackuper) Backup(_ context.Context, wallet int, filename string) error {
	f.Lock()
	defer f.Unlock()
	if f.fail[wallet] {
		return errors.New("backup failed")
	}
	f.calls = append(f.calls, backupCall{wallet: wallet, filename: filename})
	return nil
}

func Test_backupName(t *testing.T) {
	assert.Equal(t, "WALLET", backupName("WALLET", false))
	assert.Regexp(t, regexp.MustCompile(`^\d{8}T\d{6}Z_WALLET$`), backupName("WALLET", true))
}

func TestMgr_Backup(t *testing.T) {
	f := &fakeBackuper{fail: map[int]bool{3: true}}
	m := New(f, "TEST_PATH/EXPORT")
	m.DateTimeInName = false

	m.Touch("w1", 1)
	m.Touch("w2", 2)
	m.Touch("w1", 1)
	m.Touch("w3", 3)

	count := m.Backup(context.Background())
	assert.Equal(t, 2, count)
	assert.ElementsMatch(t, []backupCall{
		{1, filepath.Join("TEST_PATH/EXPORT", "w1.bolt")},
		{2, filepath.Join("TEST_PATH/EXPORT", "w2.bolt")},
	}, f.calls)

	// only the failed one is dirty anymore
	f.fail[3] = false
	f.calls = nil
	count = m.Backup(context.Background())
	assert.Equal(t, 1, count)
	assert.Equal(t, []backupCall{{3, filepath.Join("TEST_PATH/EXPORT", "w3.bolt")}}, f.calls)

	assert.Zero(t, m.Backup(context.Background()))
}
