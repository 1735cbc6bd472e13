package goals

import (
	"time"

	"github.com/talgya/tamaverse/internal/agents"
)

var activities = map[agents.GoalType]agents.Activity{
	agents.GoalTrainSkill:         agents.ActivityTraining,
	agents.GoalSocialize:          agents.ActivitySocializing,
	agents.GoalCompete:            agents.ActivityCompeting,
	agents.GoalTeach:              agents.ActivityTeaching,
	agents.GoalExplore:            agents.ActivityExploring,
	agents.GoalCreate:             agents.ActivityCreating,
	agents.GoalRest:               agents.ActivityResting,
	agents.GoalResolveConflict:    agents.ActivityMediating,
	agents.GoalBond:               agents.ActivityBonding,
	agents.GoalEstablishTerritory: agents.ActivityPatrolling,
	agents.GoalHelpFriend:         agents.ActivityHelping,
	agents.GoalAvoidEnemy:         agents.ActivityHiding,
	agents.GoalSeekRomance:        agents.ActivityCourting,
	agents.GoalProtectTerritory:   agents.ActivityPatrolling,
	agents.GoalGatherResources:    agents.ActivityExploring,
	agents.GoalSeekStimulation:    agents.ActivityPlaying,
}

var locations = map[agents.Activity]string{
	agents.ActivityResting:     "den",
	agents.ActivityTraining:    "training_grounds",
	agents.ActivitySocializing: "plaza",
	agents.ActivityCompeting:   "arena",
	agents.ActivityTeaching:    "library",
	agents.ActivityExploring:   "wilds",
	agents.ActivityCreating:    "workshop",
	agents.ActivityMediating:   "plaza",
	agents.ActivityBonding:     "garden",
	agents.ActivityPatrolling:  "borderlands",
	agents.ActivityHelping:     "infirmary",
	agents.ActivityHiding:      "thicket",
	agents.ActivityCourting:    "garden",
	agents.ActivityPlaying:     "playground",
}

// ActivityFor maps a goal type onto the activity it shows. Unknown types rest.
func ActivityFor(t agents.GoalType) agents.Activity {
	if act, ok := activities[t]; ok {
		return act
	}
	return agents.ActivityResting
}

// LocationFor names where an activity takes place.
func LocationFor(act agents.Activity) string {
	if loc, ok := locations[act]; ok {
		return loc
	}
	return "den"
}

// syncActivity mirrors the top goal into the activity fields. The start time
// only resets when the driving goal changes.
func syncActivity(a *agents.Agent, now time.Time) {
	top := a.TopGoal()
	id, act := "", agents.ActivityResting
	if top != nil {
		id, act = top.ID, ActivityFor(top.Type)
	}
	if id != a.ActivityGoalID || a.ActivityStartTime.IsZero() {
		a.ActivityGoalID = id
		a.ActivityStartTime = now
	}
	a.CurrentActivity = act
	a.ActivityLocation = LocationFor(act)
}
