package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `College,Location,University,Course Offered,Ownership Type,Phone Number,Email
Kathmandu Engineering College,"Kalimati, Kathmandu",Tribhuvan University,"Computer Science, Civil Engineering",Private,01-4280345,info@kec.edu.np
Pulchowk Campus,"Pulchowk, Lalitpur",Tribhuvan University,Computer Science; Electronics,Constituent,01-5521531,info@pcampus.edu.np
Nepal Medical College,"Jorpati, Kathmandu",Kathmandu University,MBBS / Nursing,Private,01-4911008,
,"Nowhere",Ghost University,Phantom Studies,Private,,
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colleges.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestNewCollegeStoreLoadsCSV 验证CSV解析与列映射
func TestNewCollegeStoreLoadsCSV(t *testing.T) {
	store, err := NewCollegeStore(writeTempCSV(t, sampleCSV))
	require.NoError(t, err)

	// 无名称的行应被跳过
	assert.Equal(t, 3, store.Count())
	assert.False(t, store.LoadedAt().IsZero())

	all := store.All()
	kec := all[0]
	assert.Equal(t, "Kathmandu Engineering College", kec.Name)
	assert.Equal(t, "Kalimati, Kathmandu", kec.Location)
	assert.Equal(t, "Tribhuvan University", kec.University)
	assert.Equal(t, []string{"Computer Science", "Civil Engineering"}, kec.Programs)
	assert.Equal(t, "Private", kec.OwnershipType)
	assert.Equal(t, "01-4280345", kec.Phone)
	assert.Equal(t, "info@kec.edu.np", kec.Email)
}

// TestSplitProgramsSeparators 验证课程字符串的多种分隔符
func TestSplitProgramsSeparators(t *testing.T) {
	store, err := NewCollegeStore(writeTempCSV(t, sampleCSV))
	require.NoError(t, err)

	all := store.All()
	assert.Equal(t, []string{"Computer Science", "Electronics"}, all[1].Programs, "分号分隔")
	assert.Equal(t, []string{"MBBS", "Nursing"}, all[2].Programs, "斜杠分隔")
}

// TestNewCollegeStoreMissingFile 验证文件缺失时返回错误
func TestNewCollegeStoreMissingFile(t *testing.T) {
	_, err := NewCollegeStore(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

// TestNewCollegeStoreEmptyFile 验证空CSV返回错误
func TestNewCollegeStoreEmptyFile(t *testing.T) {
	_, err := NewCollegeStore(writeTempCSV(t, ""))
	assert.Error(t, err)
}

// TestCollegeStoreHeaderOrderIndependent 验证列顺序无关
func TestCollegeStoreHeaderOrderIndependent(t *testing.T) {
	reordered := `Email,College,Course Offered,Location
a@b.edu,Test College,"BCA, BSc CSIT","Bharatpur, Chitwan"
`
	store, err := NewCollegeStore(writeTempCSV(t, reordered))
	require.NoError(t, err)
	require.Equal(t, 1, store.Count())

	c := store.All()[0]
	assert.Equal(t, "Test College", c.Name)
	assert.Equal(t, "a@b.edu", c.Email)
	assert.Equal(t, []string{"BCA", "BSc CSIT"}, c.Programs)
	assert.Equal(t, "", c.University, "缺失列按空值处理")
}

// TestLocationsExtractsCities 验证城市名取地址最后一段并排序去重
func TestLocationsExtractsCities(t *testing.T) {
	store, err := NewCollegeStore(writeTempCSV(t, sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Kathmandu", "Lalitpur"}, store.Locations())
}

// TestUniversitiesSorted 验证大学列表去重排序
func TestUniversitiesSorted(t *testing.T) {
	store, err := NewCollegeStore(writeTempCSV(t, sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Kathmandu University", "Tribhuvan University"}, store.Universities())
}

// TestFilterCombinations 验证过滤条件组合
func TestFilterCombinations(t *testing.T) {
	store, err := NewCollegeStore(writeTempCSV(t, sampleCSV))
	require.NoError(t, err)

	// 地域过滤，大小写不敏感
	result := store.Filter(CollegeFilter{Location: "kathmandu"})
	assert.Len(t, result, 2)

	// 课程关键词过滤
	result = store.Filter(CollegeFilter{ProgramKeyword: "computer"})
	assert.Len(t, result, 2)

	// 办学性质过滤
	result = store.Filter(CollegeFilter{OwnershipType: "constituent"})
	require.Len(t, result, 1)
	assert.Equal(t, "Pulchowk Campus", result[0].Name)

	// 组合过滤
	result = store.Filter(CollegeFilter{Location: "Kathmandu", ProgramKeyword: "mbbs"})
	require.Len(t, result, 1)
	assert.Equal(t, "Nepal Medical College", result[0].Name)

	// 任意职业关键词命中
	result = store.Filter(CollegeFilter{CareerKeywords: []string{"nursing", "electronics"}})
	assert.Len(t, result, 2)

	// 空条件返回全部
	result = store.Filter(CollegeFilter{})
	assert.Len(t, result, 3)
}

// TestReloadKeepsOldSnapshotOnFailure 验证刷新失败时沿用旧快照
func TestReloadKeepsOldSnapshotOnFailure(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)
	store, err := NewCollegeStore(path)
	require.NoError(t, err)
	require.Equal(t, 3, store.Count())

	// 删除文件后刷新失败，但旧数据仍然可用
	require.NoError(t, os.Remove(path))
	assert.Error(t, store.Reload())
	assert.Equal(t, 3, store.Count(), "失败的刷新不应清空数据")
}

// TestReloadConcurrentReaders 验证重载期间并发读取总是看到完整快照：
// 读到的要么是旧数据集要么是新数据集，不会出现半新半旧的中间状态
func TestReloadConcurrentReaders(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)
	store, err := NewCollegeStore(path)
	require.NoError(t, err)

	extended := sampleCSV + `Extra College,"Butwal, Rupandehi",Lumbini University,Management,Private,,
`

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				all := store.All()
				if len(all) != 3 && len(all) != 4 {
					t.Errorf("读到不完整的快照，院校数 %d", len(all))
					return
				}
				for _, c := range all {
					if c.Name == "" {
						t.Error("快照中出现空院校记录")
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		content := sampleCSV
		if i%2 == 1 {
			content = extended
		}
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		require.NoError(t, store.Reload())
	}
	close(stop)
	wg.Wait()
}

// TestReloadPicksUpChanges 验证刷新加载新内容
func TestReloadPicksUpChanges(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)
	store, err := NewCollegeStore(path)
	require.NoError(t, err)

	updated := `College,Location
Only College,"Pokhara, Kaski"
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
	require.NoError(t, store.Reload())

	assert.Equal(t, 1, store.Count())
	assert.Equal(t, "Only College", store.All()[0].Name)
}
