package service

import (
	"context"
	"database/sql"
	"fmt"
)

// PrecisionBins 准确率直方图的分箱数
const PrecisionBins = 10

// Stats 单个导出表的统计
type Stats struct {
	Total                   int64
	ByType                  map[string]int64
	ByGenerator             map[string]int64
	PrecisionHistogram      [PrecisionBins]int64
	AvgAppearedKeywords     float64
	AvgKeywords             float64
	AvgHallucinatedKeywords float64
}

// HallucinationRate 机器判定的幻觉比例
type HallucinationRate struct {
	Type         string
	Hallucinated int64
	Total        int64
}

func (r HallucinationRate) Rate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Hallucinated) / float64(r.Total)
}

type StatsService struct {
	conn *sql.DB
}

func NewStatsService(conn *sql.DB) *StatsService {
	return &StatsService{conn: conn}
}

func (s *StatsService) TableStats(ctx context.Context, table string) (*Stats, error) {
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("表名不合法: %s", table)
	}
	st := &Stats{}

	err := s.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(appeared_keyword_count), 0),
			COALESCE(AVG(keyword_count), 0),
			COALESCE(AVG(hallucinated_keyword_count), 0)
		FROM `+table).Scan(&st.Total, &st.AvgAppearedKeywords, &st.AvgKeywords, &st.AvgHallucinatedKeywords)
	if err != nil {
		return nil, fmt.Errorf("查询 %s 汇总失败: %v", table, err)
	}

	if st.ByType, err = s.countBy(ctx, table, "news_type"); err != nil {
		return nil, err
	}
	if st.ByGenerator, err = s.countBy(ctx, table, "generated_by"); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT LEAST(CAST(FLOOR(keyword_precision * %d) AS INTEGER), %d) AS bin, COUNT(*)
		FROM %s GROUP BY bin ORDER BY bin`, PrecisionBins, PrecisionBins-1, table))
	if err != nil {
		return nil, fmt.Errorf("查询准确率分布失败: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var bin int
		var n int64
		if err := rows.Scan(&bin, &n); err != nil {
			return nil, fmt.Errorf("扫描准确率分布失败: %v", err)
		}
		if bin >= 0 && bin < PrecisionBins {
			st.PrecisionHistogram[bin] = n
		}
	}
	return st, rows.Err()
}

func (s *StatsService) countBy(ctx context.Context, table, column string) (map[string]int64, error) {
	rows, err := s.conn.QueryContext(ctx, fmt.Sprintf(
		"SELECT COALESCE(%s, ''), COUNT(*) FROM %s GROUP BY 1 ORDER BY 1", column, table))
	if err != nil {
		return nil, fmt.Errorf("按 %s 统计失败: %v", column, err)
	}
	defer rows.Close()
	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("扫描 %s 统计失败: %v", column, err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// HallucinationRates 按类型统计幻觉比例，最后一项为全部类型合计
func (s *StatsService) HallucinationRates(ctx context.Context, hallucinatedTable, unhallucinatedTable string) ([]HallucinationRate, error) {
	for _, t := range []string{hallucinatedTable, unhallucinatedTable} {
		if !tableNameRegex.MatchString(t) {
			return nil, fmt.Errorf("表名不合法: %s", t)
		}
	}
	rows, err := s.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT news_type, CAST(SUM(h) AS BIGINT), COUNT(*) FROM (
			SELECT news_type, 1 AS h FROM %s
			UNION ALL
			SELECT news_type, 0 AS h FROM %s
		) GROUP BY news_type ORDER BY news_type`, hallucinatedTable, unhallucinatedTable))
	if err != nil {
		return nil, fmt.Errorf("查询幻觉比例失败: %v", err)
	}
	defer rows.Close()

	var rates []HallucinationRate
	all := HallucinationRate{Type: "ALL"}
	for rows.Next() {
		var r HallucinationRate
		if err := rows.Scan(&r.Type, &r.Hallucinated, &r.Total); err != nil {
			return nil, fmt.Errorf("扫描幻觉比例失败: %v", err)
		}
		all.Hallucinated += r.Hallucinated
		all.Total += r.Total
		rates = append(rates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return append(rates, all), nil
}
