package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"career-guide-go/internal/logger"
	"career-guide-go/internal/types"
)

// collegeSnapshot 一次完整加载的院校数据集。加载完成后只读，
// 通过原子指针整体替换，读路径永远看到一致的快照。
type collegeSnapshot struct {
	colleges []types.CollegeInfo
	loadedAt time.Time
}

// CollegeStore 院校数据集的内存存储。
// 数据来自CSV快照，支持后台定期重新加载。
type CollegeStore struct {
	csvPath  string
	snapshot atomic.Pointer[collegeSnapshot]
}

// CollegeFilter 院校过滤条件，所有字段都是可选的子串匹配
type CollegeFilter struct {
	Location       string
	University     string
	OwnershipType  string
	ProgramKeyword string
	// CareerKeywords 任意一个关键词命中课程即保留
	CareerKeywords []string
}

// NewCollegeStore 创建院校存储并做首次加载。
// 首次加载失败返回错误，由调用方决定是否降级启动。
func NewCollegeStore(csvPath string) (*CollegeStore, error) {
	s := &CollegeStore{csvPath: csvPath}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload 重新读取CSV并原子替换快照。失败时保留旧快照。
func (s *CollegeStore) Reload() error {
	colleges, err := loadCollegesCSV(s.csvPath)
	if err != nil {
		return err
	}

	s.snapshot.Store(&collegeSnapshot{
		colleges: colleges,
		loadedAt: time.Now(),
	})

	logger.Info().
		Int("count", len(colleges)).
		Str("path", s.csvPath).
		Msg("院校数据集加载完成")
	return nil
}

// loadCollegesCSV 解析院校CSV文件。
// 期望的表头列: College, Location, University, Course Offered,
// Ownership Type, Phone Number, Email。列顺序不限，缺失列按空值处理。
func loadCollegesCSV(path string) ([]types.CollegeInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开院校CSV失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析院校CSV失败: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("院校CSV为空: %s", path)
	}

	// 表头列名做归一化后建立索引
	colIdx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	colleges := make([]types.CollegeInfo, 0, len(records)-1)
	for _, row := range records[1:] {
		name := field(row, "college")
		if name == "" {
			continue
		}
		colleges = append(colleges, types.CollegeInfo{
			Name:          name,
			Location:      field(row, "location"),
			University:    field(row, "university"),
			Programs:      splitPrograms(field(row, "course offered")),
			OwnershipType: field(row, "ownership type"),
			Phone:         field(row, "phone number"),
			Email:         field(row, "email"),
		})
	}

	return colleges, nil
}

// splitPrograms 将课程字符串拆分为课程列表，兼容逗号、分号和斜杠分隔
func splitPrograms(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '/'
	})
	programs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			programs = append(programs, trimmed)
		}
	}
	return programs
}

// current 返回当前快照，未加载时返回空快照
func (s *CollegeStore) current() *collegeSnapshot {
	if snap := s.snapshot.Load(); snap != nil {
		return snap
	}
	return &collegeSnapshot{colleges: []types.CollegeInfo{}}
}

// Count 返回当前快照中的院校数量
func (s *CollegeStore) Count() int {
	return len(s.current().colleges)
}

// LoadedAt 返回当前快照的加载时间
func (s *CollegeStore) LoadedAt() time.Time {
	return s.current().loadedAt
}

// All 返回当前快照中的全部院校。返回的切片属于快照，调用方不得修改。
func (s *CollegeStore) All() []types.CollegeInfo {
	return s.current().colleges
}

// Locations 返回去重排序后的城市列表。
// 地址形如 "Dhobighat, Lalitpur" 时取最后一段作为城市名。
func (s *CollegeStore) Locations() []string {
	seen := make(map[string]struct{})
	for _, c := range s.current().colleges {
		if c.Location == "" {
			continue
		}
		parts := strings.Split(c.Location, ",")
		city := strings.TrimSpace(parts[len(parts)-1])
		if city != "" {
			seen[city] = struct{}{}
		}
	}

	cities := make([]string, 0, len(seen))
	for city := range seen {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

// Universities 返回去重排序后的大学列表
func (s *CollegeStore) Universities() []string {
	seen := make(map[string]struct{})
	for _, c := range s.current().colleges {
		if u := strings.TrimSpace(c.University); u != "" {
			seen[u] = struct{}{}
		}
	}

	universities := make([]string, 0, len(seen))
	for u := range seen {
		universities = append(universities, u)
	}
	sort.Strings(universities)
	return universities
}

// Filter 按条件过滤院校，所有匹配都是大小写不敏感的子串匹配
func (s *CollegeStore) Filter(filter CollegeFilter) []types.CollegeInfo {
	result := make([]types.CollegeInfo, 0)
	for _, c := range s.current().colleges {
		if filter.Location != "" && !containsFold(c.Location, filter.Location) {
			continue
		}
		if filter.University != "" && !containsFold(c.University, filter.University) {
			continue
		}
		if filter.OwnershipType != "" && !containsFold(c.OwnershipType, filter.OwnershipType) {
			continue
		}
		if filter.ProgramKeyword != "" && !programsContain(c.Programs, filter.ProgramKeyword) {
			continue
		}
		if len(filter.CareerKeywords) > 0 && !programsContainAny(c.Programs, filter.CareerKeywords) {
			continue
		}
		result = append(result, c)
	}
	return result
}

// StartRefresh 启动后台刷新协程，按固定间隔重新加载CSV。
// interval 不为正时不启动。ctx取消后协程退出。
func (s *CollegeStore) StartRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Reload(); err != nil {
					// 刷新失败不致命，旧快照继续服务
					logger.Warn().
						Err(err).
						Str("path", s.csvPath).
						Msg("院校数据集刷新失败，沿用旧快照")
				}
			}
		}
	}()
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func programsContain(programs []string, keyword string) bool {
	for _, p := range programs {
		if containsFold(p, keyword) {
			return true
		}
	}
	return false
}

func programsContainAny(programs []string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && programsContain(programs, kw) {
			return true
		}
	}
	return false
}
