package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"news-hallucination/pkg/model"
	"news-hallucination/pkg/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// stageRecord 兼容各阶段输出的记录，缺失字段为零值
type stageRecord struct {
	model.JudgmentRecord
	HallucinatedContinuation string            `json:"hallucinatedContinuation"`
	AllKeywords              map[string]string `json:"allKeywords"`
}

func (r *stageRecord) continuation() string {
	if r.CandidateHallucinatedContinuation != "" {
		return r.CandidateHallucinatedContinuation
	}
	return r.HallucinatedContinuation
}

func (r *stageRecord) keywords() []string {
	if len(r.Keywords) > 0 || len(r.AllKeywords) == 0 {
		return r.Keywords
	}
	kws := make([]string, 0, len(r.AllKeywords))
	for kw := range r.AllKeywords {
		kws = append(kws, kw)
	}
	sort.Strings(kws)
	return kws
}

func (r *stageRecord) hallucinated() map[string]string {
	if len(r.HallucinatedKeywords) > 0 {
		return r.HallucinatedKeywords
	}
	h := make(map[string]string)
	for kw, v := range r.AllKeywords {
		if strings.HasPrefix(v, model.VerdictUnreasonablePrefix) {
			h[kw] = v
		}
	}
	return h
}

// ExportReport 导出统计
type ExportReport struct {
	RunID    string
	Exported int
	Errors   int
}

type ExportService struct {
	conn *sql.DB
}

func NewExportService(conn *sql.DB) *ExportService {
	return &ExportService{conn: conn}
}

// ExportToDuckDB 把某个阶段目录下的全部记录分批写入 DuckDB 表，表已存在时重建
func (s *ExportService) ExportToDuckDB(ctx context.Context, src *store.JSONStore, table string, batchSize int) (ExportReport, error) {
	report := ExportReport{RunID: uuid.NewString()}
	if s.conn == nil {
		return report, fmt.Errorf("DuckDB 连接未初始化")
	}
	if !tableNameRegex.MatchString(table) {
		return report, fmt.Errorf("表名不合法: %s", table)
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if err := s.createTable(ctx, table); err != nil {
		return report, fmt.Errorf("创建 DuckDB 表失败: %v", err)
	}

	names, err := src.List()
	if err != nil {
		return report, fmt.Errorf("读取目录 %s 失败: %v", src.Dir(), err)
	}

	startTime := time.Now()
	for offset := 0; offset < len(names); offset += batchSize {
		end := min(offset+batchSize, len(names))
		records := make([]*stageRecord, 0, end-offset)
		for _, name := range names[offset:end] {
			var r stageRecord
			if err := src.Read(name, &r); err != nil {
				zap.S().Warnf("读取 %s 失败: %v", name, err)
				report.Errors++
				continue
			}
			if r.Filename == "" {
				r.Filename = name
			}
			records = append(records, &r)
		}
		n, err := s.insertBatch(ctx, table, report.RunID, records)
		if err != nil {
			return report, err
		}
		report.Exported += n
		zap.S().Debugf("已导出 %d/%d 条", end, len(names))
	}

	zap.S().Infof("导出 %s 到表 %s 完成: 成功 %d 条, 失败 %d 条, run_id %s", src.Dir(), table, report.Exported, report.Errors, report.RunID)
	zap.S().Infof("耗时：%s", time.Since(startTime))
	return report, nil
}

func (s *ExportService) createTable(ctx context.Context, table string) error {
	// 重建表，字段随版本变化时不做迁移
	if _, err := s.conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("删除旧表失败: %v", err)
	}

	createTableSQL := `
		CREATE TABLE ` + table + ` (
			filename TEXT PRIMARY KEY,
			run_id TEXT,
			head_line TEXT,
			broadcast_date TEXT,
			news_type TEXT,
			news_beginning TEXT,
			news_remainder TEXT,
			continuation TEXT,
			keyword_precision DOUBLE,
			appeared_keyword_count INTEGER,
			keyword_count INTEGER,
			hallucinated_keyword_count INTEGER,
			keywords TEXT,
			hallucinated_keywords TEXT,
			generated_by TEXT
		)
	`
	if _, err := s.conn.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("创建表失败: %v", err)
	}
	zap.S().Debugf("DuckDB 表 %s 创建成功", table)
	return nil
}

func (s *ExportService) insertBatch(ctx context.Context, table, runID string, records []*stageRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("开启事务失败: %v", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO `+table+` (filename, run_id, head_line, broadcast_date, news_type, news_beginning, news_remainder,
			continuation, keyword_precision, appeared_keyword_count, keyword_count, hallucinated_keyword_count,
			keywords, hallucinated_keywords, generated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("准备插入语句失败: %v", err)
	}
	defer stmt.Close()

	for _, r := range records {
		keywords := r.keywords()
		hallucinated := r.hallucinated()
		kwJSON, _ := json.Marshal(keywords)
		hJSON, _ := json.Marshal(hallucinated)
		if _, err := stmt.ExecContext(ctx,
			r.Filename, runID, r.HeadLine, r.BroadcastDate, r.Type, r.NewsBeginning, r.NewsRemainder,
			r.continuation(), r.KeywordPrecision, len(r.AppearedKeywords), len(keywords), len(hallucinated),
			string(kwJSON), string(hJSON), r.GeneratedBy,
		); err != nil {
			return 0, fmt.Errorf("插入 %s 失败: %v", r.Filename, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("提交事务失败: %v", err)
	}
	return len(records), nil
}

// GetExportedCount 获取表中记录数量
func (s *ExportService) GetExportedCount(ctx context.Context, table string) (int64, error) {
	if !tableNameRegex.MatchString(table) {
		return 0, fmt.Errorf("表名不合法: %s", table)
	}
	var count int64
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("查询数量失败: %v", err)
	}
	return count, nil
}

// MergeJSON 把目录下的记录按文件名顺序合并为一个 JSON 数组文件
func MergeJSON(src *store.JSONStore, target string) (int, error) {
	objs, err := store.LoadAll[json.RawMessage](src)
	if err != nil {
		return 0, err
	}
	data, err := store.Marshal(objs)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return 0, fmt.Errorf("写入 %s 失败: %v", target, err)
	}
	return len(objs), nil
}
