package scoped

import "bookmarket/pkg/domain"

// Profile and notification preferences share the userData_<ownerKey>
// document, so each setter is a read-modify-write of the whole record.

func (s *Store) Profile() (domain.Profile, error) {
	data, err := Read[domain.UserData](s, UserData)
	return data.Profile, err
}

func (s *Store) SetProfile(profile domain.Profile) error {
	data, err := Read[domain.UserData](s, UserData)
	if err != nil {
		return err
	}
	data.Profile = profile
	return Write(s, UserData, data)
}

func (s *Store) Notifications() (domain.NotificationPrefs, error) {
	data, err := Read[domain.UserData](s, UserData)
	return data.Notifications, err
}

func (s *Store) SetNotifications(prefs domain.NotificationPrefs) error {
	data, err := Read[domain.UserData](s, UserData)
	if err != nil {
		return err
	}
	data.Notifications = prefs
	return Write(s, UserData, data)
}
