package embedded

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"data/scenarios.yaml": &fstest.MapFile{Data: []byte("scenarios: []\n")},
	}
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	assert.False(t, IsInitialized())

	Init(newTestFS())
	assert.True(t, IsInitialized())

	Init(nil)
	assert.False(t, IsInitialized(), "nil 文件系统不算初始化")
}

// TestReadFileNotInitialized 测试未初始化时读取
func TestReadFileNotInitialized(t *testing.T) {
	Reset()

	_, err := ReadFile("data/scenarios.yaml")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, Exists("data/scenarios.yaml"))
}

func TestReadFile(t *testing.T) {
	Init(newTestFS())
	t.Cleanup(Reset)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "标准路径", path: "data/scenarios.yaml"},
		{name: "带 ./ 前缀", path: "./data/scenarios.yaml"},
		{name: "未知前缀", path: "assets/scenarios.yaml", wantErr: true},
		{name: "文件不存在", path: "data/missing.yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "scenarios: []\n", string(data))
		})
	}
}

func TestExists(t *testing.T) {
	Init(newTestFS())
	t.Cleanup(Reset)

	assert.True(t, Exists("data/scenarios.yaml"))
	assert.False(t, Exists("data/exercises.yaml"))
	assert.False(t, Exists("scenarios.yaml"))
}
