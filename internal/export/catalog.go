package export

import "Volunteer_Service/internal/model"

func recordsCatalog() []Table {
	return []Table{
		{
			Key:   "users",
			Label: "Пользователи",
			Columns: []Column{
				col("id", "id", func(u *model.User) any { return u.ID }),
				col("email", "email", func(u *model.User) any { return u.Email }),
				col("username", "username", func(u *model.User) any { return u.Username }),
				col("is_staff", "is_staff", func(u *model.User) any { return u.IsStaff }),
				col("is_active", "is_active", func(u *model.User) any { return u.IsActive }),
				col("date_joined", "date_joined", func(u *model.User) any { return u.DateJoined }),
			},
			Load: loadAll[model.User]("id ASC"),
		},
		{
			Key:   "events",
			Label: "Мероприятия",
			Columns: []Column{
				col("id", "id", func(e *model.Event) any { return e.ID }),
				col("title", "title", func(e *model.Event) any { return e.Title }),
				col("location", "location", func(e *model.Event) any { return e.Location }),
				col("starts_at", "starts_at", func(e *model.Event) any { return e.StartsAt }),
				col("ends_at", "ends_at", func(e *model.Event) any { return e.EndsAt }),
				col("created_at", "created_at", func(e *model.Event) any { return e.CreatedAt }),
				col("updated_at", "updated_at", func(e *model.Event) any { return e.UpdatedAt }),
			},
			Load: loadAll[model.Event]("starts_at DESC, id DESC"),
		},
		{
			Key:   "applications",
			Label: "Заявки",
			Columns: []Column{
				col("id", "id", func(a *model.VolunteerApplication) any { return a.ID }),
				col("user_id", "user_id", func(a *model.VolunteerApplication) any { return a.UserID }),
				col("event_id", "event_id", func(a *model.VolunteerApplication) any { return a.EventID }),
				col("status", "status", func(a *model.VolunteerApplication) any { return string(a.Status) }),
				col("created_at", "created_at", func(a *model.VolunteerApplication) any { return a.CreatedAt }),
				col("updated_at", "updated_at", func(a *model.VolunteerApplication) any { return a.UpdatedAt }),
			},
			Load: loadAll[model.VolunteerApplication]("created_at DESC, id DESC"),
		},
		{
			Key:   "likes",
			Label: "Лайки",
			Columns: []Column{
				col("id", "id", func(l *model.Like) any { return l.ID }),
				col("user_id", "user_id", func(l *model.Like) any { return l.UserID }),
				col("event_id", "event_id", func(l *model.Like) any { return l.EventID }),
				col("created_at", "created_at", func(l *model.Like) any { return l.CreatedAt }),
				col("updated_at", "updated_at", func(l *model.Like) any { return l.UpdatedAt }),
			},
			Load: loadAll[model.Like]("id ASC"),
		},
	}
}

// 关联对象为空时返回 nil，而不是带类型的空指针
func userOf(u *model.User) any {
	if u == nil {
		return nil
	}
	return u
}

func eventOf(e *model.Event) any {
	if e == nil {
		return nil
	}
	return e
}

func adminCatalog() []Table {
	return []Table{
		{
			Key:        "accounts.User",
			Label:      "accounts.User",
			Permission: "accounts.view_user",
			Columns: []Column{
				col("id", "ID", func(u *model.User) any { return u.ID }),
				col("email", "Email address", func(u *model.User) any { return u.Email }),
				col("username", "Username", func(u *model.User) any { return u.Username }),
				col("is_staff", "Staff status", func(u *model.User) any { return u.IsStaff }),
				col("is_active", "Active", func(u *model.User) any { return u.IsActive }),
				col("date_joined", "Date joined", func(u *model.User) any { return u.DateJoined }),
			},
			Load: loadAll[model.User]("id ASC"),
		},
		{
			Key:        "core.Event",
			Label:      "core.Event",
			Permission: "core.view_event",
			Columns: []Column{
				col("id", "ID", func(e *model.Event) any { return e.ID }),
				col("title", "Title", func(e *model.Event) any { return e.Title }),
				col("location", "Location", func(e *model.Event) any { return e.Location }),
				col("starts_at", "Starts at", func(e *model.Event) any { return e.StartsAt }),
				col("ends_at", "Ends at", func(e *model.Event) any { return e.EndsAt }),
				col("created_at", "Created at", func(e *model.Event) any { return e.CreatedAt }),
			},
			Load: loadAll[model.Event]("starts_at DESC, id DESC"),
		},
		{
			Key:        "core.VolunteerApplication",
			Label:      "core.VolunteerApplication",
			Permission: "core.view_volunteerapplication",
			Columns: []Column{
				col("id", "ID", func(a *model.VolunteerApplication) any { return a.ID }),
				col("user", "User", func(a *model.VolunteerApplication) any { return userOf(a.User) }),
				col("event", "Event", func(a *model.VolunteerApplication) any { return eventOf(a.Event) }),
				col("status", "Status", func(a *model.VolunteerApplication) any { return string(a.Status) }),
				col("created_at", "Created at", func(a *model.VolunteerApplication) any { return a.CreatedAt }),
			},
			Load: loadAll[model.VolunteerApplication]("created_at DESC, id DESC", "User", "Event"),
		},
		{
			Key:        "core.Like",
			Label:      "core.Like",
			Permission: "core.view_like",
			Columns: []Column{
				col("id", "ID", func(l *model.Like) any { return l.ID }),
				col("user", "User", func(l *model.Like) any { return userOf(l.User) }),
				col("event", "Event", func(l *model.Like) any { return eventOf(l.Event) }),
				col("created_at", "Created at", func(l *model.Like) any { return l.CreatedAt }),
			},
			Load: loadAll[model.Like]("id ASC", "User", "Event"),
		},
	}
}
