package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenBreak/domain"
)

const sample = `User_ID,Daily_Screen_Time_Hours,Screen_Unlocks_Per_Day,App_Notifications_Received,Age
1,2.5,40,120,21
2,,55,80,33
3,6.1,NA,200,45
4,4.0,70.0,150,19
5,8.25,130,NaN,27
6,1,10,20,60
7,-3,-10,-5,40
8,1,1e30,2,22
9,3,12,-1,35
10,0,0,0,50
`

func TestReadReference_SelectsColumnsAndDropsMissing(t *testing.T) {
	rows, dropped, err := ReadReference(strings.NewReader(sample))
	require.NoError(t, err)

	// missing values, negatives and a count too large for an int32 are dropped
	assert.Equal(t, 6, dropped)
	assert.Equal(t, []domain.UsageRecord{
		{ScreenTimeHours: 2.5, UnlocksPerDay: 40, NotificationsPerDay: 120},
		{ScreenTimeHours: 4.0, UnlocksPerDay: 70, NotificationsPerDay: 150},
		{ScreenTimeHours: 1, UnlocksPerDay: 10, NotificationsPerDay: 20},
		{ScreenTimeHours: 0, UnlocksPerDay: 0, NotificationsPerDay: 0},
	}, rows)
}

func TestReadReference_ColumnOrderIndependent(t *testing.T) {
	in := "App_Notifications_Received,Screen_Unlocks_Per_Day,Daily_Screen_Time_Hours\n90,50,2\n"

	rows, _, err := ReadReference(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []domain.UsageRecord{{ScreenTimeHours: 2, UnlocksPerDay: 50, NotificationsPerDay: 90}}, rows)
}

func TestReadReference_MissingColumn(t *testing.T) {
	_, _, err := ReadReference(strings.NewReader("Daily_Screen_Time_Hours,Screen_Unlocks_Per_Day\n1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ColumnNotifications)
}

func TestReadReference_EmptyInput(t *testing.T) {
	_, _, err := ReadReference(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadReference_FractionalCountDropped(t *testing.T) {
	in := "Daily_Screen_Time_Hours,Screen_Unlocks_Per_Day,App_Notifications_Received\n1,2.5,3\n"

	rows, dropped, err := ReadReference(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1, dropped)
}

func TestLoadReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mobile_screen_time.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	ds, err := NewReferenceRepository(path).LoadReference(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, path, ds.Source())
}

func TestLoadReference_MissingFile(t *testing.T) {
	_, err := NewReferenceRepository(filepath.Join(t.TempDir(), "nope.csv")).LoadReference(context.Background())
	assert.Error(t, err)
}

func TestParseCount_Bounds(t *testing.T) {
	n, ok := parseCount("2147483647")
	assert.True(t, ok)
	assert.Equal(t, 2147483647, n)

	_, ok = parseCount("2147483648")
	assert.False(t, ok)

	_, ok = parseCount("-1")
	assert.False(t, ok)
}
