package application

import (
	"github.com/example/therapy-scheduler/internal/persistence"
	"github.com/example/therapy-scheduler/internal/schedule"
)

// Conversions between the persistence records, the application view, and
// the scheduling core's input types. Weekdays are stored as 0-4 integers
// and validated on the way in, so the mappings here do not fail.

func staffFromRecord(record persistence.Staff) Staff {
	hours := make(map[schedule.Weekday]schedule.WorkingHours, len(record.Hours))
	for _, wh := range record.Hours {
		hours[schedule.Weekday(wh.Day)] = schedule.WorkingHours{Start: wh.Start, End: wh.End}
	}
	return Staff{
		ID:          record.ID,
		FullName:    record.FullName,
		Role:        record.Role,
		WeeklyQuota: record.WeeklyQuota,
		Hours:       hours,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func staffToRecord(staff Staff) persistence.Staff {
	hours := make([]persistence.WorkingHours, 0, len(staff.Hours))
	for _, day := range schedule.Weekdays {
		if wh, ok := staff.Hours[day]; ok {
			hours = append(hours, persistence.WorkingHours{Day: int(day), Start: wh.Start, End: wh.End})
		}
	}
	return persistence.Staff{
		ID:          staff.ID,
		FullName:    staff.FullName,
		Role:        staff.Role,
		WeeklyQuota: staff.WeeklyQuota,
		Hours:       hours,
	}
}

func staffToCore(staff Staff) schedule.Staff {
	hours := make(map[schedule.Weekday]schedule.WorkingHours, len(staff.Hours))
	for day, wh := range staff.Hours {
		hours[day] = wh
	}
	return schedule.Staff{
		ID:          staff.ID,
		Name:        staff.FullName,
		Hours:       hours,
		WeeklyQuota: staff.WeeklyQuota,
	}
}

func roomFromRecord(record persistence.Room) Room {
	return Room{
		ID:        record.ID,
		Name:      record.Name,
		Location:  record.Location,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func roomToCore(room Room) schedule.Room {
	return schedule.Room{ID: room.ID, Name: room.Name}
}

func activityFromRecord(record persistence.Activity) Activity {
	activity := Activity{
		ID:        record.ID,
		Name:      record.Name,
		Blocking:  record.Blocking,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if record.DefaultStart != nil && record.DefaultEnd != nil {
		activity.Default = &schedule.Interval{Start: *record.DefaultStart, End: *record.DefaultEnd}
	}
	if len(record.Overrides) > 0 {
		activity.Overrides = make(map[schedule.Weekday]*schedule.Interval, len(record.Overrides))
		for _, override := range record.Overrides {
			day := schedule.Weekday(override.Day)
			if override.Cleared {
				activity.Overrides[day] = nil
				continue
			}
			if override.Start != nil && override.End != nil {
				activity.Overrides[day] = &schedule.Interval{Start: *override.Start, End: *override.End}
			}
		}
	}
	return activity
}

func activityToRecord(activity Activity) persistence.Activity {
	record := persistence.Activity{
		ID:       activity.ID,
		Name:     activity.Name,
		Blocking: activity.Blocking,
	}
	if activity.Default != nil {
		start, end := activity.Default.Start, activity.Default.End
		record.DefaultStart = &start
		record.DefaultEnd = &end
	}
	for _, day := range schedule.Weekdays {
		override, ok := activity.Overrides[day]
		if !ok {
			continue
		}
		if override == nil {
			record.Overrides = append(record.Overrides, persistence.ActivityOverride{Day: int(day), Cleared: true})
			continue
		}
		start, end := override.Start, override.End
		record.Overrides = append(record.Overrides, persistence.ActivityOverride{Day: int(day), Start: &start, End: &end})
	}
	return record
}

func activityToCore(activity Activity) schedule.Activity {
	core := schedule.Activity{
		ID:       activity.ID,
		Name:     activity.Name,
		Blocking: activity.Blocking,
		Default:  activity.Default,
	}
	if len(activity.Overrides) > 0 {
		core.Overrides = make(map[schedule.Weekday]*schedule.Interval, len(activity.Overrides))
		for day, interval := range activity.Overrides {
			core.Overrides[day] = interval
		}
	}
	return core
}

func sessionFromRecord(record persistence.TherapySession) TherapySession {
	return TherapySession{
		ID:        record.ID,
		Day:       schedule.Weekday(record.Day),
		Start:     record.Start,
		End:       record.End,
		StaffID:   record.StaffID,
		RoomID:    record.RoomID,
		Generated: record.Generated,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func sessionToRecord(session TherapySession) persistence.TherapySession {
	return persistence.TherapySession{
		ID:        session.ID,
		Day:       int(session.Day),
		Start:     session.Start,
		End:       session.End,
		StaffID:   session.StaffID,
		RoomID:    session.RoomID,
		Generated: session.Generated,
	}
}

func sessionToCore(session TherapySession) schedule.Session {
	return schedule.Session{
		ID:      session.ID,
		Day:     session.Day,
		Start:   session.Start,
		End:     session.End,
		StaffID: session.StaffID,
		RoomID:  session.RoomID,
	}
}
