package gofat12

import (
	"testing"
)

func Test_fatEntry_predicates(t *testing.T) {
	tests := []struct {
		name     string
		e        fatEntry
		free     bool
		reserved bool
		bad      bool
		eof      bool
		next     bool
	}{
		{name: "free", e: 0x000, free: true},
		{name: "reserved 0x001", e: 0x001, reserved: true},
		{name: "first data cluster", e: 0x002, next: true},
		{name: "last data cluster", e: 0xFEF, next: true},
		{name: "reserved range start", e: 0xFF0, reserved: true},
		{name: "reserved range end", e: 0xFF6, reserved: true},
		{name: "bad", e: 0xFF7, bad: true},
		{name: "eof start", e: 0xFF8, eof: true},
		{name: "eof end", e: 0xFFF, eof: true},
		{name: "upper bits are ignored", e: 0xF000, free: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.IsFree(); got != tt.free {
				t.Errorf("fatEntry.IsFree() = %v, want %v", got, tt.free)
			}
			if got := tt.e.IsReserved(); got != tt.reserved {
				t.Errorf("fatEntry.IsReserved() = %v, want %v", got, tt.reserved)
			}
			if got := tt.e.IsBad(); got != tt.bad {
				t.Errorf("fatEntry.IsBad() = %v, want %v", got, tt.bad)
			}
			if got := tt.e.IsEOF(); got != tt.eof {
				t.Errorf("fatEntry.IsEOF() = %v, want %v", got, tt.eof)
			}
			if got := tt.e.IsNextCluster(); got != tt.next {
				t.Errorf("fatEntry.IsNextCluster() = %v, want %v", got, tt.next)
			}
		})
	}
}

func Test_fatTable_roundTrip(t *testing.T) {
	values := []fatEntry{0x000, 0x001, 0x0AB, 0x5A5, 0xA5A, 0xFF0, 0xFF7, 0xFF8, 0xFFF}
	table := newFATTable()
	for cluster := 0; cluster <= maxFATCluster; cluster++ {
		for _, v := range values {
			table.set(cluster, v)
			if got := table.get(cluster); got != v {
				t.Fatalf("get(set(%d, %#03x)) = %#03x", cluster, v, got)
			}
		}
	}
}

func Test_fatTable_allValues(t *testing.T) {
	// Every 12 bit value for an even and an odd cluster, including the pair
	// straddling the first sector boundary (cluster 341: bytes 511 and 512).
	table := newFATTable()
	for _, cluster := range []int{2, 3, 340, 341, 342} {
		for v := fatEntry(0); v <= 0xFFF; v++ {
			table.set(cluster, v)
			if got := table.get(cluster); got != v {
				t.Fatalf("get(set(%d, %#03x)) = %#03x", cluster, v, got)
			}
		}
	}
}

func Test_fatTable_neighboursUntouched(t *testing.T) {
	table := newFATTable()
	for cluster := 2; cluster < 100; cluster++ {
		table.set(cluster, fatEntry(cluster+1))
	}
	table.set(50, 0xFFF)
	table.set(51, 0x000)
	for cluster := 2; cluster < 100; cluster++ {
		want := fatEntry(cluster + 1)
		switch cluster {
		case 50:
			want = 0xFFF
		case 51:
			want = 0x000
		}
		if got := table.get(cluster); got != want {
			t.Errorf("get(%d) = %#03x, want %#03x", cluster, got, want)
		}
	}
}

func Test_readFATEntry(t *testing.T) {
	table := newFATTable()
	for cluster := 2; cluster <= maxFATCluster; cluster++ {
		table.set(cluster, fatEntry(cluster*7)&fatEntryMask)
	}

	img := NewImage(DataStart)
	for i := 0; i < SectorsPerFAT; i++ {
		img.SetSector(FAT1Start+i, table[i*SectorSize:])
	}

	for cluster := 2; cluster <= maxFATCluster; cluster++ {
		want := fatEntry(cluster*7) & fatEntryMask
		if got := readFATEntry(img, cluster); got != want {
			t.Fatalf("readFATEntry(%d) = %#03x, want %#03x", cluster, got, want)
		}
	}
}
