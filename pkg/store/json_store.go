package store

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// JSONStore 每个对象一个 JSON 文件，文件名即文章文件名。
// 文件只写一次：已存在时跳过，写入经临时文件重命名，要么完整要么不存在。
type JSONStore struct {
	dir string
}

func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "创建目录 %s 失败", dir)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) Dir() string {
	return s.dir
}

func (s *JSONStore) path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Exists 判断文件是否已写入
func (s *JSONStore) Exists(filename string) bool {
	_, err := os.Stat(s.path(filename))
	return err == nil
}

// WriteOnce 写入对象，文件已存在时返回 false 且不覆盖
func (s *JSONStore) WriteOnce(filename string, v any) (bool, error) {
	if s.Exists(filename) {
		return false, nil
	}
	data, err := Marshal(v)
	if err != nil {
		return false, errors.Wrapf(err, "序列化 %s 失败", filename)
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return false, errors.Wrap(err, "创建临时文件失败")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, errors.Wrapf(err, "写入 %s 失败", filename)
	}
	if err := tmp.Close(); err != nil {
		return false, errors.Wrapf(err, "写入 %s 失败", filename)
	}
	if s.Exists(filename) {
		return false, nil
	}
	if err := os.Rename(tmp.Name(), s.path(filename)); err != nil {
		return false, errors.Wrapf(err, "保存 %s 失败", filename)
	}
	return true, nil
}

// Read 读取单个文件
func (s *JSONStore) Read(filename string, v any) error {
	data, err := os.ReadFile(s.path(filename))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "解析 %s 失败", filename)
	}
	return nil
}

// List 返回按文件名排序的全部 JSON 文件名
func (s *JSONStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// LoadAll 按文件名顺序读取目录下所有对象
func LoadAll[T any](s *JSONStore) ([]T, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(names))
	for _, name := range names {
		var item T
		if err := s.Read(name, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Shuffle 打乱顺序，seed 为 0 时使用随机种子
func Shuffle[T any](items []T, seed int64) {
	var r *rand.Rand
	if seed == 0 {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		r = rand.New(rand.NewPCG(uint64(seed), 0))
	}
	r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// Marshal 以四空格缩进输出，不转义中文与 HTML 字符
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
