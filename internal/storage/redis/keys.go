package redis

import (
	"fmt"

	"github.com/mcoot/tankbattle/internal/model"
)

// Key prefix for all tank battle data
const keyPrefix = "tankbattle"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// emailIndexKey returns the Redis key for the email -> user_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// usersIndexKey returns the Redis key for the SET of all user ids
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// gameKey returns the Redis key for a GameRecord
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%d", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game ids
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// gamesForUserIndexKey returns the Redis key for the SET of games a user played in either seat
func gamesForUserIndexKey(id model.UserID) string {
	return fmt.Sprintf("%s:idx:games_for_user:%d", keyPrefix, id)
}

// gamesAsPlayer1IndexKey returns the Redis key for the SET of games a user played as player 1
func gamesAsPlayer1IndexKey(id model.UserID) string {
	return fmt.Sprintf("%s:idx:games_as_player1:%d", keyPrefix, id)
}

// gamesWonIndexKey returns the Redis key for the SET of games a user won
func gamesWonIndexKey(id model.UserID) string {
	return fmt.Sprintf("%s:idx:games_won:%d", keyPrefix, id)
}

// userSeqKey and gameSeqKey hold the last assigned ids
func userSeqKey() string {
	return fmt.Sprintf("%s:seq:user", keyPrefix)
}

func gameSeqKey() string {
	return fmt.Sprintf("%s:seq:game", keyPrefix)
}
