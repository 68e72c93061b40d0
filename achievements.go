package gamesdk

import (
	"fmt"

	"github.com/opd-ai/gamesdk/collection"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/limits"
)

func (d *Discord) achievementManager() (interfaces.IAchievementManager, error) {
	core, err := d.nativeCore()
	if err != nil {
		return nil, err
	}
	return core.AchievementManager(), nil
}

// SetAchievement sets the progress of an achievement. 100 unlocks it.
func (d *Discord) SetAchievement(id Snowflake, percent uint8, cb func(error)) error {
	mgr, err := d.achievementManager()
	if err != nil {
		return err
	}
	if percent > limits.MaxPercentComplete {
		return fmt.Errorf("set achievement %d: %w: %d", id, ErrInvalidPercent, percent)
	}
	return d.submitResult("SetAchievement", cb, func(data uintptr) {
		mgr.SetUserAchievement(int64(id), percent, data)
	})
}

// FetchAchievements loads the achievement progress of the current user.
func (d *Discord) FetchAchievements(cb func(error)) error {
	mgr, err := d.achievementManager()
	if err != nil {
		return err
	}
	return d.submitResult("FetchAchievements", cb, func(data uintptr) {
		mgr.FetchUserAchievements(data)
	})
}

// Achievement returns the fetched progress on one achievement.
func (d *Discord) Achievement(id Snowflake) (UserAchievement, error) {
	mgr, err := d.achievementManager()
	if err != nil {
		return UserAchievement{}, err
	}
	var a interfaces.UserAchievement
	if err := resultError("get user achievement", mgr.GetUserAchievement(int64(id), &a)); err != nil {
		return UserAchievement{}, err
	}
	return achievementFromNative(&a), nil
}

// AchievementCount returns the number of fetched achievements.
func (d *Discord) AchievementCount() (int32, error) {
	mgr, err := d.achievementManager()
	if err != nil {
		return 0, err
	}
	var count int32
	mgr.CountUserAchievements(&count)
	return count, nil
}

// AchievementAt returns the fetched achievement at index.
func (d *Discord) AchievementAt(index int32) (UserAchievement, error) {
	mgr, err := d.achievementManager()
	if err != nil {
		return UserAchievement{}, err
	}
	var a interfaces.UserAchievement
	if err := resultError("get user achievement at", mgr.GetUserAchievementAt(index, &a)); err != nil {
		return UserAchievement{}, err
	}
	return achievementFromNative(&a), nil
}

// IterAchievements returns a lazy view over the fetched achievements.
func (d *Discord) IterAchievements() (*collection.Collection[UserAchievement], error) {
	return collection.FromCount(d.AchievementCount, d.AchievementAt)
}
