package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var (
	ErrFileNotFound = errors.New("文件不存在")
	ErrDecode       = errors.New("无法识别或解码文件编码")
)

// DefaultSniffBytes 编码检测读取的字节数
const DefaultSniffBytes = 10000

// chardet 与 WHATWG 编码表命名不一致的项
var charsetAliases = map[string]string{
	"GB-18030": "gb18030",
}

// Options 读取选项
type Options struct {
	SniffBytes int
	Encoding   string // 非空时跳过检测
}

// Document 解码后的文件
type Document struct {
	Path       string
	Encoding   string
	Confidence int // 检测置信度 0-100，指定编码时为 100
	Lines      []string
}

// Load 读取文件，检测编码并按物理行切分
func Load(path string, opts Options) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	doc := &Document{Path: path}
	if len(raw) == 0 {
		return doc, nil
	}

	name, confidence, err := detect(raw, opts)
	if err != nil {
		return nil, err
	}
	doc.Encoding = name
	doc.Confidence = confidence

	text, err := decode(raw, name)
	if err != nil {
		return nil, err
	}
	doc.Lines = SplitLines(text)
	return doc, nil
}

func detect(raw []byte, opts Options) (string, int, error) {
	if opts.Encoding != "" {
		return opts.Encoding, 100, nil
	}

	n := opts.SniffBytes
	if n <= 0 {
		n = DefaultSniffBytes
	}
	if n > len(raw) {
		n = len(raw)
	}

	result, err := chardet.NewTextDetector().DetectBest(raw[:n])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return result.Charset, result.Confidence, nil
}

func decode(raw []byte, name string) (string, error) {
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("%w: 未知编码 %q", ErrDecode, name)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(out), nil
}

// SplitLines 按 \n 切分，去掉行尾的 \r；末尾换行不产生空行
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
